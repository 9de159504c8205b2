// Package cpu implements the CPU core: register file, PSR, pipeline state,
// and the fetch/decode/execute tick loop, plus one execute unit per
// instruction family in the sibling execute_*.go files.
package cpu

import (
	"fmt"

	"github.com/armsim/armv4/bus"
	"github.com/armsim/armv4/decode"
	"github.com/armsim/armv4/psr"
)

// Register index aliases.
const (
	SP = 13
	LR = 14
	PC = 15
)

// CPU holds the architectural register file, PSR, and pipeline state. R[15]
// always holds the architectural "two instructions ahead" PC view: the
// fetch address for the instruction currently executing is R[15]-8.
type CPU struct {
	R    [16]uint32
	CPSR psr.PSR
	SPSR psr.SPSRBank

	// PipelineWait is the number of ticks remaining before the
	// fetch/decode/execute pipeline is primed. Invariant: PipelineWait <= 2.
	PipelineWait uint8
}

// New returns a CPU in reset state.
func New() *CPU {
	c := &CPU{}
	c.Reset()
	return c
}

// Reset puts the CPU back to its power-on state: PC=0, CPSR defaults to
// Supervisor mode with IRQ/FIQ disabled and ARM state, and a cold
// two-cycle pipeline.
func (c *CPU) Reset() {
	c.R = [16]uint32{}
	c.CPSR = psr.PSR{Mode: psr.ModeSupervisor, I: true, F: true}
	c.SPSR = psr.SPSRBank{}
	c.PipelineWait = 2
}

// GetGPR returns register i (0..15); reading 15 returns the architectural
// PC view.
func (c *CPU) GetGPR(i int) uint32 {
	return c.R[i&0xF]
}

// SetGPR writes register i (0..15).
func (c *CPU) SetGPR(i int, v uint32) {
	c.R[i&0xF] = v
}

// GetCPSR returns the packed CPSR value.
func (c *CPU) GetCPSR() uint32 {
	return c.CPSR.ToUint32()
}

// SetCPSR unpacks a raw value into the CPSR, including the mode field.
func (c *CPU) SetCPSR(v uint32) {
	c.CPSR.FromUint32(v)
}

// Tick advances the CPU by one cycle: during pipeline warm-up it just
// advances PC; once primed it fetches, decodes, evaluates the condition
// code, and executes exactly one instruction.
func (c *CPU) Tick(b bus.Bus) error {
	if c.PipelineWait > 0 {
		c.PipelineWait--
		c.R[PC] += 4
		return nil
	}

	fetchAddr := c.R[PC] - 8
	raw, err := b.ReadWord(fetchAddr)
	if err != nil {
		return err
	}

	dec, err := decode.Decode(raw)
	if err != nil {
		return err
	}

	if !c.CPSR.Evaluate(dec.Condition) {
		c.R[PC] += 4
		return nil
	}

	flush, err := c.execute(b, dec)
	if err != nil {
		return err
	}

	if flush {
		c.PipelineWait = 2
	} else {
		c.R[PC] += 4
	}
	return nil
}

// execute dispatches a decoded instruction to its family's execute unit. It
// returns whether the pipeline must flush (a PC-modifying write happened)
// and the instruction's error, if any.
func (c *CPU) execute(b bus.Bus, dec decode.Decoded) (bool, error) {
	switch dec.Category {
	case decode.DataProcessing:
		return c.executeDataProcessing(dec.DataProcessing)
	case decode.Memory:
		return c.executeMemory(b, dec.Memory)
	case decode.ExtraMemory:
		return c.executeExtraMemory(b, dec.ExtraMemory)
	case decode.Multiply:
		return c.executeMultiply(dec.Multiply)
	case decode.BlockTransfer:
		return c.executeBlockTransfer(b, dec.BlockTransfer)
	case decode.Branch:
		return c.executeBranch(dec.Branch)
	default: // decode.Undefined
		return false, fmt.Errorf("%w: undefined instruction at 0x%08X", decode.ErrUnsupportedEncoding, dec.Raw)
	}
}
