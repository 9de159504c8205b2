package bus_test

import (
	"testing"

	"github.com/armsim/armv4/bus"
)

func TestRAMReadWriteWord(t *testing.T) {
	ram := bus.NewRAM(64)
	if err := ram.WriteWord(4, 0x01020304); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	v, err := ram.ReadWord(4)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0x01020304 {
		t.Errorf("expected 0x01020304, got 0x%08X", v)
	}
}

func TestRAMLittleEndian(t *testing.T) {
	ram := bus.NewRAM(16)
	if err := ram.WriteWord(0, 0x01020304); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	b0, _ := ram.ReadByte(0)
	b1, _ := ram.ReadByte(1)
	b2, _ := ram.ReadByte(2)
	b3, _ := ram.ReadByte(3)
	if b0 != 0x04 || b1 != 0x03 || b2 != 0x02 || b3 != 0x01 {
		t.Errorf("expected little-endian bytes 04 03 02 01, got %02X %02X %02X %02X", b0, b1, b2, b3)
	}
}

func TestRAMOutOfRange(t *testing.T) {
	ram := bus.NewRAM(16)
	if _, err := ram.ReadByte(16); err == nil {
		t.Error("expected error reading out-of-range byte")
	}
	if _, err := ram.ReadWord(13); err == nil {
		t.Error("expected error reading a word that overruns the buffer")
	}
	if err := ram.WriteWord(16, 0); err == nil {
		t.Error("expected error writing out-of-range word")
	}
}

func TestRAMLoadBytes(t *testing.T) {
	ram := bus.NewRAM(16)
	if err := ram.LoadBytes(4, []byte{0xAA, 0xBB, 0xCC}); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	b, _ := ram.ReadByte(5)
	if b != 0xBB {
		t.Errorf("expected 0xBB at offset 5, got 0x%02X", b)
	}
}

func TestFaultUnwraps(t *testing.T) {
	ram := bus.NewRAM(4)
	_, err := ram.ReadByte(100)
	if err == nil {
		t.Fatal("expected error")
	}
	var fault *bus.Fault
	if f, ok := err.(*bus.Fault); !ok {
		t.Errorf("expected *bus.Fault, got %T", err)
	} else {
		fault = f
		if fault.Addr != 100 {
			t.Errorf("expected Addr=100, got %d", fault.Addr)
		}
		if fault.Unwrap() == nil {
			t.Error("expected the fault to unwrap to its underlying cause")
		}
	}
}
