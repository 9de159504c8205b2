package cpu

import (
	"github.com/armsim/armv4/bus"
	"github.com/armsim/armv4/decode"
	"github.com/armsim/armv4/psr"
)

// executeBlockTransfer executes one LDM/STM instruction. Addressing derives
// all four of IA/IB/DA/DB from (P,U), and write-back for LDM happens before
// the loads run, so a base register that is also in the register list ends
// up holding the loaded value rather than the write-back address.
func (c *CPU) executeBlockTransfer(b bus.Bus, f *decode.BlockTransferFields) (bool, error) {
	if f.S && c.CPSR.Mode == psr.ModeUser {
		return false, ErrPrivilegedAccess
	}

	regs := blockRegList(f.RegList)
	n := uint32(len(regs))
	base := c.GetGPR(f.Rn)

	var start uint32
	switch {
	case f.P && f.U: // IB
		start = base + 4
	case !f.P && f.U: // IA
		start = base
	case f.P && !f.U: // DB
		start = base - 4*n
	default: // DA
		start = base - 4*n + 4
	}

	var writeBackVal uint32
	if f.U {
		writeBackVal = base + 4*n
	} else {
		writeBackVal = base - 4*n
	}

	flush := false

	if f.Op == decode.OpLDM {
		if f.W {
			c.SetGPR(f.Rn, writeBackVal)
		}
		addr := start
		for _, r := range regs {
			v, err := b.ReadWord(addr)
			if err != nil {
				return false, err
			}
			c.SetGPR(r, v)
			if r == PC {
				flush = true
			}
			addr += 4
		}
		// S=1 with R15 in the list is the exception-return form: the
		// current mode's SPSR replaces the CPSR. Without R15 (and with a
		// flat register file) the user-bank transfer is the plain one.
		if f.S && flush {
			c.CPSR = c.SPSR.Get(c.CPSR.Mode)
		}
		return flush, nil
	}

	addr := start
	for _, r := range regs {
		if err := b.WriteWord(addr, c.GetGPR(r)); err != nil {
			return false, err
		}
		addr += 4
	}
	if f.W {
		c.SetGPR(f.Rn, writeBackVal)
	}
	return false, nil
}

// blockRegList expands a 16-bit register mask into ascending register
// indices; the lowest-numbered register always maps to the lowest address
// regardless of transfer direction.
func blockRegList(mask uint16) []int {
	var regs []int
	for i := 0; i < 16; i++ {
		if mask&(1<<uint(i)) != 0 {
			regs = append(regs, i)
		}
	}
	return regs
}
