package decode_test

import (
	"errors"
	"testing"

	"github.com/armsim/armv4/decode"
	"github.com/armsim/armv4/psr"
)

func TestDecodeMOVImmediate(t *testing.T) {
	// MOV R0, #42 condition AL
	raw := uint32(0xE3A0002A)
	d, err := decode.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Category != decode.DataProcessing {
		t.Fatalf("expected DataProcessing, got %v", d.Category)
	}
	if d.Condition != psr.CondAL {
		t.Errorf("expected CondAL, got %v", d.Condition)
	}
	f := d.DataProcessing
	if f.Op != decode.OpMOV || f.Rd != 0 || f.Imm8 != 42 {
		t.Errorf("unexpected fields: %+v", f)
	}
}

func TestDecodeCompareRequiresSFlag(t *testing.T) {
	// CMP opcode (1010) with S=0 is reserved.
	raw := uint32(0xE14F0000) // cond=AL, cmd=1010 (CMP), S=0
	_, err := decode.Decode(raw)
	if !errors.Is(err, decode.ErrUnsupportedEncoding) {
		t.Errorf("expected ErrUnsupportedEncoding, got %v", err)
	}
}

func TestDecodeBranchAndLink(t *testing.T) {
	raw := uint32(0xEB000002) // BL #8 (imm24=2)
	d, err := decode.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Category != decode.Branch || d.Branch.Op != decode.OpBL || d.Branch.Imm24 != 2 {
		t.Errorf("unexpected branch fields: %+v", d.Branch)
	}
}

func TestDecodeMultiplyRejectsRdEqualsR15(t *testing.T) {
	// MUL R15, R1, R2 (Rd field = bits 19:16 = 15)
	raw := uint32(0xE00F0291)
	_, err := decode.Decode(raw)
	if !errors.Is(err, decode.ErrUnsupportedEncoding) {
		t.Errorf("expected ErrUnsupportedEncoding for Rd=R15 multiply, got %v", err)
	}
}

func TestDecodeLongMultiply(t *testing.T) {
	// UMULL with RdLo=R0, RdHi=R1, Rm=R2, Rn=R3
	raw := uint32(0xE0810293)
	d, err := decode.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Category != decode.Multiply || d.Multiply.Op != decode.OpUMULL {
		t.Errorf("unexpected multiply fields: %+v", d.Multiply)
	}
}

func TestDecodeMemoryUnsupportedIndexingMode(t *testing.T) {
	// P=0, W=1 single-data-transfer encoding is an explicit reserved mode.
	raw := uint32(0xE6200000)
	_, err := decode.Decode(raw)
	if !errors.Is(err, decode.ErrUnsupportedIndexingMode) {
		t.Errorf("expected ErrUnsupportedIndexingMode, got %v", err)
	}
}

func TestDecodeBlockTransfer(t *testing.T) {
	// STMDB with write-back (P=1,U=0,W=1), R4 base, reg list {R0,R1}
	raw := uint32(0xE9240003)
	d, err := decode.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Category != decode.BlockTransfer || d.BlockTransfer.Op != decode.OpSTM {
		t.Errorf("unexpected block transfer fields: %+v", d.BlockTransfer)
	}
	if d.BlockTransfer.RegList != 0x0003 {
		t.Errorf("expected RegList=0x3, got 0x%04X", d.BlockTransfer.RegList)
	}
}

func TestDecodeExtraMemoryHalfWordLoad(t *testing.T) {
	// LDRH R3, [R1, #4]: P=1,U=1,I=1,W=0,L=1, SH=01.
	raw := uint32(0xE1D130B4)
	d, err := decode.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Category != decode.ExtraMemory {
		t.Fatalf("expected ExtraMemory, got %v", d.Category)
	}
	f := d.ExtraMemory
	if f.Op != decode.OpLDRH || f.Rn != 1 || f.Rd != 3 || f.Offset8 != 4 {
		t.Errorf("unexpected extra-memory fields: %+v", f)
	}
	if f.Index != decode.Offset {
		t.Errorf("expected Offset index mode (P=1,W=0), got %v", f.Index)
	}
}

func TestDecodeExtraMemoryReservedSHIsUnsupported(t *testing.T) {
	// SH=00 with L=0 is a reserved half-word-space encoding, not a valid STRH.
	raw := uint32(0xE1C12094) // same as a valid STRH but SH forced to 00
	_, err := decode.Decode(raw)
	if !errors.Is(err, decode.ErrUnsupportedEncoding) {
		t.Errorf("expected ErrUnsupportedEncoding for reserved SH=00 store, got %v", err)
	}
}

func TestDecodeUndefinedInstructionSpace(t *testing.T) {
	raw := uint32(0xE6000010) // bits 27:25=011, bit4=1: undefined space
	d, err := decode.Decode(raw)
	if err != nil {
		t.Fatalf("Decode of the reserved undefined space must not itself error: %v", err)
	}
	if d.Category != decode.Undefined {
		t.Errorf("expected Undefined category, got %v", d.Category)
	}
}
