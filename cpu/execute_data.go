package cpu

import (
	"fmt"

	"github.com/armsim/armv4/decode"
	"github.com/armsim/armv4/shifter"
)

// executeDataProcessing executes one AND..MVN/LSL../RRX instruction. The
// compare opcodes always update flags; every other opcode updates them only
// when S is set.
func (c *CPU) executeDataProcessing(f *decode.DataProcessingFields) (bool, error) {
	rn := c.GetGPR(f.Rn)

	op2, shiftCarry := c.resolveOperand2(f)

	var result uint32
	var carry, overflow bool
	logical := true
	writeResult := true

	switch f.Op {
	case decode.OpAND:
		result = rn & op2
		carry = shiftCarry
	case decode.OpEOR:
		result = rn ^ op2
		carry = shiftCarry
	case decode.OpSUB:
		result = rn - op2
		carry, overflow, logical = subCarry(rn, op2), subOverflow(rn, op2, rn-op2), false
	case decode.OpRSB:
		result = op2 - rn
		carry, overflow, logical = subCarry(op2, rn), subOverflow(op2, rn, op2-rn), false
	case decode.OpADD:
		result = rn + op2
		carry, overflow, logical = addCarry(rn, op2, rn+op2), addOverflow(rn, op2, rn+op2), false
	case decode.OpADC:
		cin := carryIn(c.CPSR.C)
		temp := rn + op2
		result = temp + cin
		carry = addCarry(rn, op2, temp) || addCarry(temp, cin, result)
		overflow = addOverflow(rn, op2, result)
		logical = false
	case decode.OpSBC:
		// rn - op2 - NOT(C), computed as rn + ^op2 + C (the hardware
		// subtractor form ADC already uses above): folding the borrow into
		// a uint32 operand before a plain subCarry/subOverflow call wraps
		// incorrectly when op2 is 0xFFFFFFFF and C is clear, so the carry
		// chain is run the same way ADC's is instead.
		cin := carryIn(c.CPSR.C)
		op2inv := ^op2
		temp := rn + op2inv
		result = temp + cin
		carry = addCarry(rn, op2inv, temp) || addCarry(temp, cin, result)
		overflow = addOverflow(rn, op2inv, result)
		logical = false
	case decode.OpRSC:
		// op2 - rn - NOT(C), i.e. op2 + ^rn + C, through the same
		// inverted-operand addition chain as SBC above.
		cin := carryIn(c.CPSR.C)
		rninv := ^rn
		temp := op2 + rninv
		result = temp + cin
		carry = addCarry(op2, rninv, temp) || addCarry(temp, cin, result)
		overflow = addOverflow(op2, rninv, result)
		logical = false
	case decode.OpTST:
		result = rn & op2
		carry = shiftCarry
		writeResult = false
	case decode.OpTEQ:
		result = rn ^ op2
		carry = shiftCarry
		writeResult = false
	case decode.OpCMP:
		result = rn - op2
		carry, overflow, logical = subCarry(rn, op2), subOverflow(rn, op2, rn-op2), false
		writeResult = false
	case decode.OpCMN:
		result = rn + op2
		carry, overflow, logical = addCarry(rn, op2, rn+op2), addOverflow(rn, op2, rn+op2), false
		writeResult = false
	case decode.OpORR:
		result = rn | op2
		carry = shiftCarry
	case decode.OpMOV, decode.OpLSL, decode.OpLSR, decode.OpASR, decode.OpROR, decode.OpRRX:
		result = op2
		carry = shiftCarry
	case decode.OpBIC:
		result = rn &^ op2
		carry = shiftCarry
	case decode.OpMVN:
		result = ^op2
		carry = shiftCarry
	default:
		return false, fmt.Errorf("unknown data processing opcode %v", f.Op)
	}

	if writeResult {
		c.SetGPR(f.Rd, result)
	}

	if f.SetFlags {
		if logical {
			c.CPSR.UpdateNZC(result, carry)
		} else {
			c.CPSR.UpdateNZCV(result, carry, overflow)
		}
	}

	flush := writeResult && f.Rd == PC
	return flush, nil
}

func carryIn(c bool) uint32 {
	if c {
		return 1
	}
	return 0
}

// resolveOperand2 evaluates the shifter operand for a data-processing
// instruction: either a rotated 8-bit immediate, or a register optionally
// shifted by an immediate or register amount.
func (c *CPU) resolveOperand2(f *decode.DataProcessingFields) (value uint32, shiftCarry bool) {
	if f.Immediate {
		value = shifter.Shift(shifter.ROR, f.Imm8, uint(f.Rotate), c.CPSR.C)
		if f.Rotate == 0 {
			return value, c.CPSR.C
		}
		return value, value&0x80000000 != 0
	}

	rm := c.GetGPR(f.Rm)
	var amount uint
	if f.ShiftByReg {
		amount = uint(c.GetGPR(f.Rs) & 0xFF)
	} else {
		amount = f.ShiftAmount
	}

	value = shifter.Shift(f.ShiftKind, rm, amount, c.CPSR.C)
	carry, changed := shifter.CarryOut(f.ShiftKind, rm, amount, c.CPSR.C)
	if !changed {
		carry = c.CPSR.C
	}
	return value, carry
}
