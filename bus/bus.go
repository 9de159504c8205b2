// Package bus defines the memory bus surface the CPU core reads instructions
// and data from, and the flat little-endian RAM implementation used by the
// standalone driver and the test suite.
package bus

import "fmt"

// Bus is the CPU's only outbound surface. Implementations are provided by
// the host (ROM/RAM/MMIO); the interpreter core never assumes more than
// these four operations.
type Bus interface {
	ReadByte(addr uint32) (uint8, error)
	ReadWord(addr uint32) (uint32, error)
	WriteByte(addr uint32, value uint8) error
	WriteWord(addr uint32, value uint32) error
}

// Fault reports a bus-level access failure (out-of-range address, etc).
// Tick passes it through to the host unchanged.
type Fault struct {
	Addr uint32
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("bus fault: %s at 0x%08X: %v", f.Op, f.Addr, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

var errOutOfRange = fmt.Errorf("address out of range")

// NewFault wraps an access failure at addr during op. RAM reports its faults
// through it, and other Bus implementations can use it too; a nil err is
// recorded as an out-of-range failure.
func NewFault(op string, addr uint32, err error) *Fault {
	if err == nil {
		err = errOutOfRange
	}
	return &Fault{Addr: addr, Op: op, Err: err}
}
