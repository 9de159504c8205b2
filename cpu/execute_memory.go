package cpu

import (
	"github.com/armsim/armv4/bus"
	"github.com/armsim/armv4/decode"
	"github.com/armsim/armv4/shifter"
)

// executeMemory executes one LDR/STR/LDRB/STRB instruction. The half-word
// and signed-transfer forms live in the ExtraMemory unit; their encodings
// never reach here.
func (c *CPU) executeMemory(b bus.Bus, f *decode.MemoryFields) (bool, error) {
	offset := c.memoryOffset(f)
	base := c.GetGPR(f.Rn)

	addr := base
	if f.Index == decode.PreIndex || f.Index == decode.Offset {
		addr = applyOffset(base, offset, f.Add)
	}

	var flush bool
	var err error

	switch f.Op {
	case decode.OpLDR:
		var v uint32
		v, err = b.ReadWord(addr)
		if err == nil {
			c.SetGPR(f.Rd, v)
			flush = f.Rd == PC
		}
	case decode.OpSTR:
		err = b.WriteWord(addr, c.GetGPR(f.Rd))
	case decode.OpLDRB:
		var v uint8
		v, err = b.ReadByte(addr)
		if err == nil {
			c.SetGPR(f.Rd, uint32(v))
			flush = f.Rd == PC
		}
	case decode.OpSTRB:
		err = b.WriteByte(addr, uint8(c.GetGPR(f.Rd)))
	}
	if err != nil {
		return false, err
	}

	c.writeBackBase(f.Rn, base, offset, f.Add, f.Index, f.WriteBack)

	return flush, nil
}

// memoryOffset resolves the 12-bit offset field of a Memory-category
// instruction: either an immediate or a shifted register. Unlike a
// data-processing operand2, the shift carry-out is not consumed.
func (c *CPU) memoryOffset(f *decode.MemoryFields) uint32 {
	if !f.Immediate {
		return f.Offset12
	}
	rm := c.GetGPR(f.Rm)
	return shifter.Shift(f.ShiftKind, rm, f.ShiftAmount, c.CPSR.C)
}

func applyOffset(base, offset uint32, add bool) uint32 {
	if add {
		return base + offset
	}
	return base - offset
}

// writeBackBase applies post-index addressing or explicit write-back to Rn.
// Pre-indexed addressing without W writes nothing back; with W it writes
// the already-computed effective address.
func (c *CPU) writeBackBase(rn int, base, offset uint32, add bool, idx decode.IndexMode, writeBack bool) {
	switch idx {
	case decode.PostIndex:
		c.SetGPR(rn, applyOffset(base, offset, add))
	case decode.PreIndex:
		if writeBack {
			c.SetGPR(rn, applyOffset(base, offset, add))
		}
	case decode.Offset:
		// no write-back
	}
}
