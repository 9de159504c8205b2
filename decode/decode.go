// Package decode implements the pure fetch-word -> decoded-instruction
// classifier: category/opcode extraction by fixed bit-field masking. Each
// instruction family gets its own payload struct so an execute unit only
// ever sees fields that are valid for its encoding.
package decode

import (
	"fmt"

	"github.com/armsim/armv4/psr"
	"github.com/armsim/armv4/shifter"
)

// Category classifies a decoded instruction into one of the families the
// execute stage dispatches on.
type Category int

const (
	DataProcessing Category = iota
	Memory
	ExtraMemory
	Multiply
	BlockTransfer
	Branch
	Undefined
)

func (c Category) String() string {
	switch c {
	case DataProcessing:
		return "DataProcessing"
	case Memory:
		return "Memory"
	case ExtraMemory:
		return "ExtraMemory"
	case Multiply:
		return "Multiply"
	case BlockTransfer:
		return "BlockTransfer"
	case Branch:
		return "Branch"
	case Undefined:
		return "Undefined"
	default:
		return "?"
	}
}

// IndexMode is the addressing-mode composite derived from the P and W bits
// of a single-data-transfer instruction.
type IndexMode int

const (
	PostIndex IndexMode = iota
	Unsupported
	Offset
	PreIndex
)

// DPOp is a data-processing opcode, including the LSL/LSR/ASR/ROR/RRX
// pseudo-opcodes the decoder recovers from the MOV-group register-shift
// encoding.
type DPOp int

const (
	OpAND DPOp = iota
	OpEOR
	OpSUB
	OpRSB
	OpADD
	OpADC
	OpSBC
	OpRSC
	OpTST
	OpTEQ
	OpCMP
	OpCMN
	OpORR
	OpMOV
	OpBIC
	OpMVN
	OpLSL
	OpLSR
	OpASR
	OpROR
	OpRRX
)

// DataProcessingFields is the field view for a DataProcessing-category
// instruction.
type DataProcessingFields struct {
	Op        DPOp
	SetFlags  bool
	Rn, Rd    int
	Immediate bool // I bit: true -> rotated 8-bit immediate, false -> shifted register

	// Immediate operand2 (Immediate == true)
	Imm8   uint32
	Rotate uint32 // already multiplied by two

	// Register operand2 (Immediate == false)
	Rm          int
	ShiftKind   shifter.Kind
	ShiftByReg  bool
	ShiftAmount uint // valid when !ShiftByReg
	Rs          int  // valid when ShiftByReg
}

// MemOp is a single-word/byte transfer opcode.
type MemOp int

const (
	OpLDR MemOp = iota
	OpSTR
	OpLDRB
	OpSTRB
)

// MemoryFields is the field view for a Memory-category instruction.
type MemoryFields struct {
	Op        MemOp
	Rn, Rd    int
	Index     IndexMode
	Add       bool // U bit
	WriteBack bool

	Immediate bool // I bit: true -> shifted-register offset, false -> 12-bit immediate
	Offset12  uint32

	Rm          int
	ShiftKind   shifter.Kind
	ShiftAmount uint
}

// ExtraMemOp is a half-word/signed transfer opcode.
type ExtraMemOp int

const (
	OpLDRH ExtraMemOp = iota
	OpSTRH
	OpLDRSB
	OpLDRSH
)

// ExtraMemoryFields is the field view for an ExtraMemory-category
// instruction.
type ExtraMemoryFields struct {
	Op        ExtraMemOp
	Rn, Rd    int
	Index     IndexMode
	Add       bool
	WriteBack bool

	ImmediateOffset bool // bit 22: true -> 8-bit split immediate, false -> Rm
	Offset8         uint32
	Rm              int
}

// MulOp is a multiply-family opcode.
type MulOp int

const (
	OpMUL MulOp = iota
	OpMLA
	OpUMULL
	OpUMLAL
	OpSMULL
	OpSMLAL
)

// MultiplyFields is the field view for a Multiply-category instruction.
// Multiply encodings lay their registers out differently from the base
// format: Rd = bits 19..16, Rn = bits 3..0, Rm = bits 11..8, and the
// accumulate register Ra = bits 15..12.
type MultiplyFields struct {
	Op       MulOp
	SetFlags bool
	Rd       int // dest (short forms) / RdHi (long forms)
	Ra       int // accumulate (short forms) / RdLo (long forms)
	Rm       int // bits 11..8
	Rn       int // bits 3..0
}

// BlockOp is LDM or STM.
type BlockOp int

const (
	OpLDM BlockOp = iota
	OpSTM
)

// BlockTransferFields is the field view for a BlockTransfer-category
// instruction.
type BlockTransferFields struct {
	Op         BlockOp
	Rn         int
	RegList    uint16
	P, U, S, W bool
}

// BranchOp is B or BL.
type BranchOp int

const (
	OpB BranchOp = iota
	OpBL
)

// BranchFields is the field view for a Branch-category instruction.
type BranchFields struct {
	Op    BranchOp
	Imm24 uint32
}

// Decoded is the immutable result of decoding one instruction word. Exactly
// one of the family-specific pointer fields is non-nil, matching Category;
// for Category Undefined all of them are nil.
// It is constructed fresh for each execute step and discarded afterward.
type Decoded struct {
	Raw       uint32
	Condition psr.Condition
	Category  Category

	DataProcessing *DataProcessingFields
	Memory         *MemoryFields
	ExtraMemory    *ExtraMemoryFields
	Multiply       *MultiplyFields
	BlockTransfer  *BlockTransferFields
	Branch         *BranchFields
}

func indexMode(p, w bool) IndexMode {
	switch {
	case !p && !w:
		return PostIndex
	case !p && w:
		return Unsupported
	case p && !w:
		return Offset
	default:
		return PreIndex
	}
}

// Decode classifies a raw 32-bit instruction word by fixed bit masks, first
// match wins. It is pure and total for every bit pattern in the supported
// subset; patterns outside it, and reserved sub-encodings within a matched
// category, report ErrUnsupportedEncoding. The reserved (P=0,W=1)
// addressing mode on a single-data-transfer instruction reports
// ErrUnsupportedIndexingMode. The undefined instruction space (bits 27:25 =
// 011 with bit 4 set) is not an error here: it decodes as Category
// Undefined, and the execute stage rejects it.
func Decode(raw uint32) (Decoded, error) {
	cond := psr.DecodeCondition(raw)

	switch {
	case raw&0x0E000000 == 0x0A000000:
		return decodeBranch(raw, cond)

	case raw&0x0FC000F0 == 0x00000090, raw&0x0F8000F0 == 0x00800090:
		return decodeMultiply(raw, cond)

	case raw&0x0E000010 == 0x06000010:
		return Decoded{Raw: raw, Condition: cond, Category: Undefined}, nil

	case raw&0x0E400F90 == 0x00000090, raw&0x0E400090 == 0x00400090:
		return decodeExtraMemory(raw, cond)

	case raw&0x0C000000 == 0x04000000:
		return decodeMemory(raw, cond)

	case raw&0x0C000000 == 0x00000000:
		return decodeDataProcessing(raw, cond)

	case raw&0x0E000000 == 0x08000000:
		return decodeBlockTransfer(raw, cond)

	default:
		return Decoded{}, fmt.Errorf("%w: 0x%08X", ErrUnsupportedEncoding, raw)
	}
}

func decodeBranch(raw uint32, cond psr.Condition) (Decoded, error) {
	link := (raw>>24)&1 != 0
	op := OpB
	if link {
		op = OpBL
	}
	return Decoded{
		Raw: raw, Condition: cond, Category: Branch,
		Branch: &BranchFields{Op: op, Imm24: raw & 0x00FFFFFF},
	}, nil
}

func decodeMultiply(raw uint32, cond psr.Condition) (Decoded, error) {
	rd := int((raw >> 16) & 0xF)
	ra := int((raw >> 12) & 0xF)
	rm := int((raw >> 8) & 0xF)
	rn := int(raw & 0xF)
	setFlags := (raw>>20)&1 != 0
	accumulate := (raw>>21)&1 != 0

	if rd == 15 {
		return Decoded{}, fmt.Errorf("%w: multiply with Rd=R15: 0x%08X", ErrUnsupportedEncoding, raw)
	}

	var op MulOp
	if raw&0x0F8000F0 == 0x00800090 {
		// Long multiply: bit 22 selects signed/unsigned.
		signed := (raw>>22)&1 != 0
		switch {
		case !signed && !accumulate:
			op = OpUMULL
		case !signed && accumulate:
			op = OpUMLAL
		case signed && !accumulate:
			op = OpSMULL
		default:
			op = OpSMLAL
		}
	} else {
		if accumulate {
			op = OpMLA
		} else {
			op = OpMUL
		}
	}

	return Decoded{
		Raw: raw, Condition: cond, Category: Multiply,
		Multiply: &MultiplyFields{Op: op, SetFlags: setFlags, Rd: rd, Ra: ra, Rm: rm, Rn: rn},
	}, nil
}

func decodeDataProcessing(raw uint32, cond psr.Condition) (Decoded, error) {
	cmd := (raw >> 21) & 0xF
	immediate := (raw>>25)&1 != 0
	setFlags := (raw>>20)&1 != 0
	rn := int((raw >> 16) & 0xF)
	rd := int((raw >> 12) & 0xF)

	if cmd >= 0x8 && cmd <= 0xB && !setFlags {
		return Decoded{}, fmt.Errorf("%w: comparison opcode with S=0: 0x%08X", ErrUnsupportedEncoding, raw)
	}

	f := &DataProcessingFields{SetFlags: setFlags, Rn: rn, Rd: rd, Immediate: immediate}

	if immediate {
		f.Imm8 = raw & 0xFF
		f.Rotate = ((raw >> 8) & 0xF) * 2
	} else {
		f.Rm = int(raw & 0xF)
		kind := shifter.Kind((raw >> 5) & 0x3)
		f.ShiftByReg = (raw>>4)&1 != 0
		if f.ShiftByReg {
			f.Rs = int((raw >> 8) & 0xF)
		} else {
			f.ShiftAmount = uint((raw >> 7) & 0x1F)
			if kind == shifter.ROR && f.ShiftAmount == 0 {
				kind = shifter.RRX
			}
		}
		f.ShiftKind = kind
	}

	switch cmd {
	case 0x0:
		f.Op = OpAND
	case 0x1:
		f.Op = OpEOR
	case 0x2:
		f.Op = OpSUB
	case 0x3:
		f.Op = OpRSB
	case 0x4:
		f.Op = OpADD
	case 0x5:
		f.Op = OpADC
	case 0x6:
		f.Op = OpSBC
	case 0x7:
		f.Op = OpRSC
	case 0x8:
		f.Op = OpTST
	case 0x9:
		f.Op = OpTEQ
	case 0xA:
		f.Op = OpCMP
	case 0xB:
		f.Op = OpCMN
	case 0xC:
		f.Op = OpORR
	case 0xD:
		f.Op = movGroupOp(raw, immediate, f)
	case 0xE:
		f.Op = OpBIC
	case 0xF:
		f.Op = OpMVN
	}

	return Decoded{Raw: raw, Condition: cond, Category: DataProcessing, DataProcessing: f}, nil
}

// movGroupOp distinguishes MOV from the LSL/LSR/ASR/ROR/RRX pseudo-opcodes
// within the cmd=0b1101 (MOV) group: cmd=1101 with I set, or with a zero
// 8-bit sub-opcode, decodes as MOV; otherwise the shift kind names the
// operation, with RRX as the I=0,sh=11,amount=0 special case (already
// folded into f.ShiftKind above).
func movGroupOp(raw uint32, immediate bool, f *DataProcessingFields) DPOp {
	if immediate {
		return OpMOV
	}
	subop8 := (raw >> 4) & 0xFF
	if f.ShiftKind == shifter.RRX {
		return OpRRX
	}
	if subop8 == 0 {
		return OpMOV
	}
	switch f.ShiftKind {
	case shifter.LSL:
		return OpLSL
	case shifter.LSR:
		return OpLSR
	case shifter.ASR:
		return OpASR
	case shifter.ROR:
		return OpROR
	default:
		return OpMOV
	}
}

func decodeMemory(raw uint32, cond psr.Condition) (Decoded, error) {
	immediate := (raw>>25)&1 != 0 // register-shifted offset when true
	p := (raw>>24)&1 != 0
	u := (raw>>23)&1 != 0
	b := (raw>>22)&1 != 0
	w := (raw>>21)&1 != 0
	l := (raw>>20)&1 != 0
	rn := int((raw >> 16) & 0xF)
	rd := int((raw >> 12) & 0xF)

	idx := indexMode(p, w)
	if idx == Unsupported {
		return Decoded{}, fmt.Errorf("%w: 0x%08X", ErrUnsupportedIndexingMode, raw)
	}

	var op MemOp
	switch {
	case b && l:
		op = OpLDRB
	case b && !l:
		op = OpSTRB
	case !b && l:
		op = OpLDR
	default:
		op = OpSTR
	}

	f := &MemoryFields{Op: op, Rn: rn, Rd: rd, Index: idx, Add: u, WriteBack: w, Immediate: immediate}
	if immediate {
		f.Rm = int(raw & 0xF)
		f.ShiftKind = shifter.Kind((raw >> 5) & 0x3)
		f.ShiftAmount = uint((raw >> 7) & 0x1F)
	} else {
		f.Offset12 = raw & 0xFFF
	}

	return Decoded{Raw: raw, Condition: cond, Category: Memory, Memory: f}, nil
}

func decodeExtraMemory(raw uint32, cond psr.Condition) (Decoded, error) {
	p := (raw>>24)&1 != 0
	u := (raw>>23)&1 != 0
	immOffset := (raw>>22)&1 != 0
	w := (raw>>21)&1 != 0
	l := (raw>>20)&1 != 0
	rn := int((raw >> 16) & 0xF)
	rd := int((raw >> 12) & 0xF)
	sh := (raw >> 5) & 0x3

	idx := indexMode(p, w)
	if idx == Unsupported {
		return Decoded{}, fmt.Errorf("%w: 0x%08X", ErrUnsupportedIndexingMode, raw)
	}

	var op ExtraMemOp
	if l {
		switch sh {
		case 1:
			op = OpLDRH
		case 2:
			op = OpLDRSB
		case 3:
			op = OpLDRSH
		default:
			return Decoded{}, fmt.Errorf("%w: reserved extra-memory encoding: 0x%08X", ErrUnsupportedEncoding, raw)
		}
	} else {
		if sh != 1 {
			return Decoded{}, fmt.Errorf("%w: reserved extra-memory encoding: 0x%08X", ErrUnsupportedEncoding, raw)
		}
		op = OpSTRH
	}

	f := &ExtraMemoryFields{Op: op, Rn: rn, Rd: rd, Index: idx, Add: u, WriteBack: w, ImmediateOffset: immOffset}
	if immOffset {
		hi := (raw >> 8) & 0xF
		lo := raw & 0xF
		f.Offset8 = (hi << 4) | lo
	} else {
		f.Rm = int(raw & 0xF)
	}

	return Decoded{Raw: raw, Condition: cond, Category: ExtraMemory, ExtraMemory: f}, nil
}

func decodeBlockTransfer(raw uint32, cond psr.Condition) (Decoded, error) {
	p := (raw>>24)&1 != 0
	u := (raw>>23)&1 != 0
	s := (raw>>22)&1 != 0
	w := (raw>>21)&1 != 0
	l := (raw>>20)&1 != 0
	rn := int((raw >> 16) & 0xF)
	regList := uint16(raw & 0xFFFF)

	op := OpSTM
	if l {
		op = OpLDM
	}

	return Decoded{
		Raw: raw, Condition: cond, Category: BlockTransfer,
		BlockTransfer: &BlockTransferFields{Op: op, Rn: rn, RegList: regList, P: p, U: u, S: s, W: w},
	}, nil
}
