package asm

import (
	"testing"

	"github.com/go-test/deep"
)

// Property 7: for every (opcode, legal addressing-mode) pair, decoding
// the encoding yields the same variant with the same operand.
func TestAssembleDecodeRoundTrip(t *testing.T) {
	for _, r := range table {
		var op Opcode
		switch {
		case r.kind == modeRelative:
			op = NewBranch(r.mnemonic, -5)
		case r.kind == Implicit:
			op = NewImplicit(r.mnemonic)
		case r.kind.operandBytes() == 1:
			op = New(r.mnemonic, AddressingMode{Kind: r.kind, Operand: 0x42})
		default:
			op = New(r.mnemonic, AddressingMode{Kind: r.kind, Operand: 0xBEEF})
		}

		enc, err := Encode(op)
		if err != nil {
			t.Fatalf("Encode(%v) = %v, want nil error", op, err)
		}
		if got, want := enc[0], r.b; got != want {
			t.Fatalf("Encode(%v)[0] = %#02x, want %#02x", op, got, want)
		}

		got := Decode(enc[0])
		for i := 1; i < len(enc); i++ {
			if i == 1 {
				got.SetArg1(enc[i])
			} else {
				got.SetArg2(enc[i])
			}
		}
		if diff := deep.Equal(got, op); diff != nil {
			t.Errorf("round trip for %#02x: decoded %+v, want %+v: %v", r.b, got, op, diff)
		}
	}
}

func TestDecodeUnknownByteYieldsNOP(t *testing.T) {
	// 0x02 is an undocumented halt opcode on real hardware and is not in
	// our legal-opcode table, so it must decode to NOP.
	op := Decode(0x02)
	if op.Mnemonic != NOP || op.Mode.Kind != Implicit {
		t.Errorf("Decode(0x02) = %+v, want NOP/Implicit", op)
	}
}

func TestEncodeInvalidAddressMode(t *testing.T) {
	_, err := Encode(New(ADC, AddressingMode{Kind: Implicit}))
	if _, ok := err.(InvalidAddressModeError); !ok {
		t.Fatalf("Encode(ADC Implicit) err = %v, want InvalidAddressModeError", err)
	}
}

func TestAssembleProgram(t *testing.T) {
	ops := []Opcode{
		NewImplicit(CLC),
		New(LDA, AddressingMode{Kind: Immediate, Operand: 0x5A}),
		New(ADC, AddressingMode{Kind: Immediate, Operand: 0xFF}),
		NewImplicit(SEC),
		New(SBC, AddressingMode{Kind: Immediate, Operand: 0xFF}),
	}
	want := []byte{0x18, 0xA9, 0x5A, 0x69, 0xFF, 0x38, 0xE9, 0xFF}
	got, err := Assemble(ops)
	if err != nil {
		t.Fatalf("Assemble() err = %v", err)
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("Assemble() = %v", diff)
	}
}

func TestDisassembleMatchesAssemble(t *testing.T) {
	ops := []Opcode{
		New(LDX, AddressingMode{Kind: Immediate, Operand: 0x0A}),
		New(LDA, AddressingMode{Kind: ZeroPage, Operand: 0xFF}),
		NewBranch(BPL, -5),
	}
	bytes, err := Assemble(ops)
	if err != nil {
		t.Fatalf("Assemble() err = %v", err)
	}
	got := Disassemble(bytes)
	if diff := deep.Equal(got, ops); diff != nil {
		t.Errorf("Disassemble(Assemble(ops)) = %v", diff)
	}
}
