package cpu

import "github.com/armsim/armv4/decode"

// executeMultiply executes one MUL/MLA/UMULL/UMLAL/SMULL/SMLAL instruction.
// The long forms split their 64-bit result across two registers, Ra low and
// Rd high; C and V are left unchanged for every multiply, as ARMv4 permits.
func (c *CPU) executeMultiply(f *decode.MultiplyFields) (bool, error) {
	rm := c.GetGPR(f.Rm)
	rn := c.GetGPR(f.Rn)

	var flush bool

	switch f.Op {
	case decode.OpMUL:
		result := rm * rn
		c.SetGPR(f.Rd, result)
		if f.SetFlags {
			c.CPSR.UpdateNZ(result)
		}
		flush = f.Rd == PC

	case decode.OpMLA:
		result := rm*rn + c.GetGPR(f.Ra)
		c.SetGPR(f.Rd, result)
		if f.SetFlags {
			c.CPSR.UpdateNZ(result)
		}
		flush = f.Rd == PC

	case decode.OpUMULL, decode.OpUMLAL:
		product := uint64(rm) * uint64(rn)
		if f.Op == decode.OpUMLAL {
			acc := uint64(c.GetGPR(f.Rd))<<32 | uint64(c.GetGPR(f.Ra))
			product += acc
		}
		lo, hi := uint32(product), uint32(product>>32)
		c.SetGPR(f.Ra, lo) // RdLo
		c.SetGPR(f.Rd, hi) // RdHi
		if f.SetFlags {
			c.CPSR.UpdateNZ64(hi, lo)
		}
		flush = f.Rd == PC || f.Ra == PC

	case decode.OpSMULL, decode.OpSMLAL:
		product := int64(int32(rm)) * int64(int32(rn))
		if f.Op == decode.OpSMLAL {
			acc := int64(uint64(c.GetGPR(f.Rd))<<32 | uint64(c.GetGPR(f.Ra)))
			product += acc
		}
		lo, hi := uint32(product), uint32(product>>32)
		c.SetGPR(f.Ra, lo)
		c.SetGPR(f.Rd, hi)
		if f.SetFlags {
			c.CPSR.UpdateNZ64(hi, lo)
		}
		flush = f.Rd == PC || f.Ra == PC
	}

	return flush, nil
}
