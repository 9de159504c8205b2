// Package shifter implements the ARM barrel shifter: the value+carry
// computation shared by data-processing register operands and the
// register-offset addressing mode of the memory unit.
package shifter

// Kind tags one of the four shift operations plus RRX.
type Kind int

const (
	LSL Kind = iota
	LSR
	ASR
	ROR
	RRX // data-processing only: rotate right through carry
)

// Shift computes the shifted value. amount is 0..31 for LSL/LSR/ASR/ROR in
// the immediate-shift encoding, which never carries more than 5 bits;
// register-specified amounts of 32 and above saturate (LSL/LSR to zero, ASR
// to the sign fill, ROR modulo 32). RRX ignores amount and always rotates by
// exactly one bit through carry.
func Shift(kind Kind, value uint32, amount uint, carryIn bool) uint32 {
	switch kind {
	case LSL:
		if amount == 0 {
			return value
		}
		if amount >= 32 {
			return 0
		}
		return value << amount

	case LSR:
		if amount == 0 {
			return value
		}
		if amount >= 32 {
			return 0
		}
		return value >> amount

	case ASR:
		if amount == 0 {
			return value
		}
		if amount >= 32 {
			if value&0x80000000 != 0 {
				return 0xFFFFFFFF
			}
			return 0
		}
		result := value >> amount
		if value&0x80000000 != 0 {
			result |= 0xFFFFFFFF << (32 - amount)
		}
		return result

	case ROR:
		if amount == 0 {
			return value
		}
		amount %= 32
		if amount == 0 {
			return value
		}
		return (value >> amount) | (value << (32 - amount))

	case RRX:
		result := value >> 1
		if carryIn {
			result |= 0x80000000
		}
		return result

	default:
		return value
	}
}

// CarryOut computes the carry-out of a shift, or (false, false) meaning
// "no new carry" when the operation leaves the existing carry flag
// unaffected (LSL #0 and ROR #0 pass the value through untouched).
func CarryOut(kind Kind, value uint32, amount uint, carryIn bool) (carry bool, changed bool) {
	switch kind {
	case LSL:
		if amount == 0 {
			return false, false
		}
		if amount > 32 {
			return false, true
		}
		if amount == 32 {
			return value&1 != 0, true
		}
		return value&(1<<(32-amount)) != 0, true

	case LSR:
		if amount == 0 {
			return false, false
		}
		if amount > 32 {
			return false, true
		}
		if amount == 32 {
			return value&0x80000000 != 0, true
		}
		return value&(1<<(amount-1)) != 0, true

	case ASR:
		if amount == 0 {
			return false, false
		}
		if amount >= 32 {
			return value&0x80000000 != 0, true
		}
		return value&(1<<(amount-1)) != 0, true

	case ROR:
		if amount == 0 {
			return false, false
		}
		a := amount % 32
		if a == 0 {
			return value&0x80000000 != 0, true
		}
		return value&(1<<(a-1)) != 0, true

	case RRX:
		return value&1 != 0, true

	default:
		return carryIn, false
	}
}
