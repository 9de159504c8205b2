package cpu

import (
	"github.com/armsim/armv4/bus"
	"github.com/armsim/armv4/decode"
)

// executeExtraMemory executes one LDRH/STRH/LDRSB/LDRSH instruction. The
// Bus interface has no half-word primitive, so half-word access is
// synthesized from two little-endian ReadByte/WriteByte calls.
func (c *CPU) executeExtraMemory(b bus.Bus, f *decode.ExtraMemoryFields) (bool, error) {
	var offset uint32
	if f.ImmediateOffset {
		offset = f.Offset8
	} else {
		offset = c.GetGPR(f.Rm)
	}

	base := c.GetGPR(f.Rn)
	addr := base
	if f.Index == decode.PreIndex || f.Index == decode.Offset {
		addr = applyOffset(base, offset, f.Add)
	}

	var flush bool
	var err error

	switch f.Op {
	case decode.OpLDRH:
		var v uint16
		v, err = readHalfWord(b, addr)
		if err == nil {
			c.SetGPR(f.Rd, uint32(v))
			flush = f.Rd == PC
		}
	case decode.OpSTRH:
		err = writeHalfWord(b, addr, uint16(c.GetGPR(f.Rd)))
	case decode.OpLDRSB:
		var v uint8
		v, err = b.ReadByte(addr)
		if err == nil {
			c.SetGPR(f.Rd, signExtend(uint32(v), 8))
			flush = f.Rd == PC
		}
	case decode.OpLDRSH:
		var v uint16
		v, err = readHalfWord(b, addr)
		if err == nil {
			c.SetGPR(f.Rd, signExtend(uint32(v), 16))
			flush = f.Rd == PC
		}
	}
	if err != nil {
		return false, err
	}

	c.writeBackBase(f.Rn, base, offset, f.Add, f.Index, f.WriteBack)

	return flush, nil
}

func readHalfWord(b bus.Bus, addr uint32) (uint16, error) {
	lo, err := b.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := b.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func writeHalfWord(b bus.Bus, addr uint32, v uint16) error {
	if err := b.WriteByte(addr, uint8(v)); err != nil {
		return err
	}
	return b.WriteByte(addr+1, uint8(v>>8))
}

func signExtend(v uint32, bits int) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}
