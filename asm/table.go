package asm

import "fmt"

// row is one entry of the canonical MOS 6502 opcode table: the single
// byte assigned to one (mnemonic, addressing mode) pair. This table is
// the single source of truth for both Decode (byte -> Opcode) and
// Assemble (Opcode -> byte); undocumented/illegal
// opcodes are not listed and fall through to the NOP default.
type row struct {
	b        uint8
	mnemonic Mnemonic
	kind     ModeKind
}

var table = []row{
	// ADC
	{0x69, ADC, Immediate}, {0x65, ADC, ZeroPage}, {0x75, ADC, ZeroPageIndexedX},
	{0x6D, ADC, Absolute}, {0x7D, ADC, AbsoluteIndexedX}, {0x79, ADC, AbsoluteIndexedY},
	{0x61, ADC, IndexedIndirect}, {0x71, ADC, IndirectIndexed},
	// AND
	{0x29, AND, Immediate}, {0x25, AND, ZeroPage}, {0x35, AND, ZeroPageIndexedX},
	{0x2D, AND, Absolute}, {0x3D, AND, AbsoluteIndexedX}, {0x39, AND, AbsoluteIndexedY},
	{0x21, AND, IndexedIndirect}, {0x31, AND, IndirectIndexed},
	// ASL
	{0x0A, ASL, Implicit}, {0x06, ASL, ZeroPage}, {0x16, ASL, ZeroPageIndexedX},
	{0x0E, ASL, Absolute}, {0x1E, ASL, AbsoluteIndexedX},
	// Branches
	{0x90, BCC, modeRelative}, {0xB0, BCS, modeRelative}, {0xF0, BEQ, modeRelative},
	{0x30, BMI, modeRelative}, {0xD0, BNE, modeRelative}, {0x10, BPL, modeRelative},
	{0x50, BVC, modeRelative}, {0x70, BVS, modeRelative},
	// BIT
	{0x24, BIT, ZeroPage}, {0x2C, BIT, Absolute},
	// BRK/RTI/RTS
	{0x00, BRK, Implicit}, {0x40, RTI, Implicit}, {0x60, RTS, Implicit},
	// Flag ops
	{0x18, CLC, Implicit}, {0xD8, CLD, Implicit}, {0x58, CLI, Implicit}, {0xB8, CLV, Implicit},
	{0x38, SEC, Implicit}, {0xF8, SED, Implicit}, {0x78, SEI, Implicit},
	// CMP/CPX/CPY
	{0xC9, CMP, Immediate}, {0xC5, CMP, ZeroPage}, {0xD5, CMP, ZeroPageIndexedX},
	{0xCD, CMP, Absolute}, {0xDD, CMP, AbsoluteIndexedX}, {0xD9, CMP, AbsoluteIndexedY},
	{0xC1, CMP, IndexedIndirect}, {0xD1, CMP, IndirectIndexed},
	{0xE0, CPX, Immediate}, {0xE4, CPX, ZeroPage}, {0xEC, CPX, Absolute},
	{0xC0, CPY, Immediate}, {0xC4, CPY, ZeroPage}, {0xCC, CPY, Absolute},
	// DEC/DEX/DEY
	{0xC6, DEC, ZeroPage}, {0xD6, DEC, ZeroPageIndexedX}, {0xCE, DEC, Absolute}, {0xDE, DEC, AbsoluteIndexedX},
	{0xCA, DEX, Implicit}, {0x88, DEY, Implicit},
	// EOR
	{0x49, EOR, Immediate}, {0x45, EOR, ZeroPage}, {0x55, EOR, ZeroPageIndexedX},
	{0x4D, EOR, Absolute}, {0x5D, EOR, AbsoluteIndexedX}, {0x59, EOR, AbsoluteIndexedY},
	{0x41, EOR, IndexedIndirect}, {0x51, EOR, IndirectIndexed},
	// INC/INX/INY
	{0xE6, INC, ZeroPage}, {0xF6, INC, ZeroPageIndexedX}, {0xEE, INC, Absolute}, {0xFE, INC, AbsoluteIndexedX},
	{0xE8, INX, Implicit}, {0xC8, INY, Implicit},
	// JMP/JSR
	{0x4C, JMP, Absolute}, {0x6C, JMP, Indirect}, {0x20, JSR, Absolute},
	// LDA/LDX/LDY
	{0xA9, LDA, Immediate}, {0xA5, LDA, ZeroPage}, {0xB5, LDA, ZeroPageIndexedX},
	{0xAD, LDA, Absolute}, {0xBD, LDA, AbsoluteIndexedX}, {0xB9, LDA, AbsoluteIndexedY},
	{0xA1, LDA, IndexedIndirect}, {0xB1, LDA, IndirectIndexed},
	{0xA2, LDX, Immediate}, {0xA6, LDX, ZeroPage}, {0xB6, LDX, ZeroPageIndexedY},
	{0xAE, LDX, Absolute}, {0xBE, LDX, AbsoluteIndexedY},
	{0xA0, LDY, Immediate}, {0xA4, LDY, ZeroPage}, {0xB4, LDY, ZeroPageIndexedX},
	{0xAC, LDY, Absolute}, {0xBC, LDY, AbsoluteIndexedX},
	// LSR
	{0x4A, LSR, Implicit}, {0x46, LSR, ZeroPage}, {0x56, LSR, ZeroPageIndexedX},
	{0x4E, LSR, Absolute}, {0x5E, LSR, AbsoluteIndexedX},
	// NOP
	{0xEA, NOP, Implicit},
	// ORA
	{0x09, ORA, Immediate}, {0x05, ORA, ZeroPage}, {0x15, ORA, ZeroPageIndexedX},
	{0x0D, ORA, Absolute}, {0x1D, ORA, AbsoluteIndexedX}, {0x19, ORA, AbsoluteIndexedY},
	{0x01, ORA, IndexedIndirect}, {0x11, ORA, IndirectIndexed},
	// Stack ops
	{0x48, PHA, Implicit}, {0x08, PHP, Implicit}, {0x68, PLA, Implicit}, {0x28, PLP, Implicit},
	// ROL/ROR
	{0x2A, ROL, Implicit}, {0x26, ROL, ZeroPage}, {0x36, ROL, ZeroPageIndexedX},
	{0x2E, ROL, Absolute}, {0x3E, ROL, AbsoluteIndexedX},
	{0x6A, ROR, Implicit}, {0x66, ROR, ZeroPage}, {0x76, ROR, ZeroPageIndexedX},
	{0x6E, ROR, Absolute}, {0x7E, ROR, AbsoluteIndexedX},
	// SBC
	{0xE9, SBC, Immediate}, {0xE5, SBC, ZeroPage}, {0xF5, SBC, ZeroPageIndexedX},
	{0xED, SBC, Absolute}, {0xFD, SBC, AbsoluteIndexedX}, {0xF9, SBC, AbsoluteIndexedY},
	{0xE1, SBC, IndexedIndirect}, {0xF1, SBC, IndirectIndexed},
	// STA/STX/STY
	{0x85, STA, ZeroPage}, {0x95, STA, ZeroPageIndexedX}, {0x8D, STA, Absolute},
	{0x9D, STA, AbsoluteIndexedX}, {0x99, STA, AbsoluteIndexedY},
	{0x81, STA, IndexedIndirect}, {0x91, STA, IndirectIndexed},
	{0x86, STX, ZeroPage}, {0x96, STX, ZeroPageIndexedY}, {0x8E, STX, Absolute},
	{0x84, STY, ZeroPage}, {0x94, STY, ZeroPageIndexedX}, {0x8C, STY, Absolute},
	// Transfers
	{0xAA, TAX, Implicit}, {0xA8, TAY, Implicit}, {0xBA, TSX, Implicit},
	{0x8A, TXA, Implicit}, {0x9A, TXS, Implicit}, {0x98, TYA, Implicit},
}

type decodeEntry struct {
	mnemonic Mnemonic
	kind     ModeKind
}

var (
	decodeTable [256]decodeEntry
	encodeTable = map[decodeEntry]uint8{}
)

func init() {
	for _, r := range table {
		e := decodeEntry{r.mnemonic, r.kind}
		decodeTable[r.b] = e
		encodeTable[e] = r.b
	}
}

// Decode looks up the instruction and addressing-mode shape for an
// opcode byte: a 256-entry table with unknown bytes yielding
// NOP. The returned Opcode's operand fields are zero; the caller (the
// CPU's Arg1/Arg2 states) fills them in with SetArg1/SetArg2 once it has
// read the required number of operand bytes (see ArgCount).
func Decode(b uint8) Opcode {
	e := decodeTable[b]
	if e.kind == modeRelative {
		return Opcode{Mnemonic: e.mnemonic, branch: true}
	}
	return Opcode{Mnemonic: e.mnemonic, Mode: AddressingMode{Kind: e.kind}}
}

// Encode returns the canonical byte for o's (mnemonic, addressing mode)
// pair, followed by 0, 1, or 2 little-endian operand bytes, or
// InvalidAddressModeError if the combination is not part of the 6502
// instruction set (e.g. ADC(Implicit)).
func Encode(o Opcode) ([]byte, error) {
	kind := o.Mode.Kind
	if o.branch {
		kind = modeRelative
	}
	b, ok := encodeTable[decodeEntry{o.Mnemonic, kind}]
	if !ok {
		return nil, InvalidAddressModeError{Mnemonic: o.Mnemonic, Mode: kind}
	}
	out := []byte{b}
	if o.branch {
		return append(out, uint8(o.Displacement)), nil
	}
	switch kind.operandBytes() {
	case 1:
		out = append(out, uint8(o.Mode.Operand))
	case 2:
		out = append(out, uint8(o.Mode.Operand), uint8(o.Mode.Operand>>8))
	}
	return out, nil
}

// Assemble encodes a sequence of instructions into their concatenated
// byte representation.
func Assemble(ops []Opcode) ([]byte, error) {
	var out []byte
	for i, o := range ops {
		enc, err := Encode(o)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		out = append(out, enc...)
	}
	return out, nil
}

// Disassemble is the inverse of Assemble: it walks a byte slice decoding
// one instruction at a time until the bytes are exhausted. A truncated
// final instruction (not enough operand bytes remaining) is returned as
// far as it was decoded, with zero-padded missing operand bytes.
func Disassemble(data []byte) []Opcode {
	var out []Opcode
	for i := 0; i < len(data); {
		o := Decode(data[i])
		i++
		n := o.ArgCount()
		if n >= 1 && i < len(data) {
			o.SetArg1(data[i])
			i++
		}
		if n >= 2 && i < len(data) {
			o.SetArg2(data[i])
			i++
		}
		out = append(out, o)
	}
	return out
}
