package cpu_test

import (
	"testing"

	"github.com/armsim/armv4/bus"
	"github.com/armsim/armv4/cpu"
)

// Encodings below all use Rn=R1, P=1 (pre-index), U=1 (add), W=0: an
// offset-mode half-word/signed transfer.

func TestSTRHStoresLowHalfWord(t *testing.T) {
	c := cpu.New()
	ram := bus.NewRAM(64)
	if err := ram.WriteWord(0, 0xE1C120B4); err != nil { // STRH R2, [R1, #4]
		t.Fatalf("WriteWord: %v", err)
	}

	c.R[1] = 0x10
	c.R[2] = 0xAABBCCDD

	if err := c.Tick(ram); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if err := c.Tick(ram); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	if err := c.Tick(ram); err != nil {
		t.Fatalf("tick 3: %v", err)
	}

	v, err := ram.ReadWord(0x14)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0x0000CCDD {
		t.Errorf("expected only the low half-word 0xCCDD stored at 0x14, got 0x%08X", v)
	}
	if c.GetGPR(1) != 0x10 {
		t.Errorf("offset-mode addressing must not write back, R1 got 0x%X", c.GetGPR(1))
	}
}

func TestLDRHZeroExtends(t *testing.T) {
	c := cpu.New()
	ram := bus.NewRAM(64)
	if err := ram.WriteWord(0, 0xE1D130B4); err != nil { // LDRH R3, [R1, #4]
		t.Fatalf("WriteWord: %v", err)
	}
	if err := ram.WriteWord(0x14, 0xFFFF8000); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}

	c.R[1] = 0x10

	for i := 0; i < 3; i++ {
		if err := c.Tick(ram); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if c.GetGPR(3) != 0x8000 {
		t.Errorf("LDRH must zero-extend, expected R3=0x8000, got 0x%X", c.GetGPR(3))
	}
}

func TestLDRSBSignExtendsNegative(t *testing.T) {
	c := cpu.New()
	ram := bus.NewRAM(64)
	if err := ram.WriteWord(0, 0xE1D140D0); err != nil { // LDRSB R4, [R1, #0]
		t.Fatalf("WriteWord: %v", err)
	}
	if err := ram.WriteByte(0x10, 0x80); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	c.R[1] = 0x10

	for i := 0; i < 3; i++ {
		if err := c.Tick(ram); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if c.GetGPR(4) != 0xFFFFFF80 {
		t.Errorf("LDRSB must sign-extend a negative byte, expected R4=0xFFFFFF80, got 0x%X", c.GetGPR(4))
	}
}

func TestLDRSHSignExtendsNegative(t *testing.T) {
	c := cpu.New()
	ram := bus.NewRAM(64)
	if err := ram.WriteWord(0, 0xE1D150F2); err != nil { // LDRSH R5, [R1, #2]
		t.Fatalf("WriteWord: %v", err)
	}
	if err := ram.WriteWord(0x10, 0x80010000); err != nil { // half-word at 0x12 = 0x8001
		t.Fatalf("WriteWord: %v", err)
	}

	c.R[1] = 0x10

	for i := 0; i < 3; i++ {
		if err := c.Tick(ram); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if c.GetGPR(5) != 0xFFFF8001 {
		t.Errorf("LDRSH must sign-extend a negative half-word, expected R5=0xFFFF8001, got 0x%X", c.GetGPR(5))
	}
}
