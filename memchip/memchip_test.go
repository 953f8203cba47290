package memchip

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

// Property 4: RAM write then read returns the same byte.
func TestRamWriteReadRoundTrip(t *testing.T) {
	r := NewRam256B()
	r.vcc.Value = logic.High
	r.Tick(time.Millisecond) // power on, randomize

	addr := []*pin.Pin{&r.a0, &r.a1, &r.a2, &r.a3, &r.a4, &r.a5, &r.a6, &r.a7}
	io := []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3, &r.io4, &r.io5, &r.io6, &r.io7}

	pin.Write(addr, 0x2A)
	r.cs.Value = logic.Low
	r.we.Value = logic.Low
	r.oe.Value = logic.High
	for _, p := range io {
		p.Direction = pin.Output
		p.Value = logic.Undefined
	}
	pin.Write(io, 0x99)
	r.Tick(time.Millisecond)

	if got := r.Peek(0x2A); got != 0x99 {
		t.Fatalf("after write, Peek(0x2A) = %#x, want 0x99", got)
	}

	r.we.Value = logic.High
	r.oe.Value = logic.Low
	for _, p := range io {
		p.Direction = pin.Floating
		p.Value = logic.Undefined
	}
	r.Tick(time.Millisecond)

	got := pin.ReadThreshold(io, threshold)
	if got != 0x99 {
		t.Errorf("read back via IO pins = %#x, want 0x99\n%s", got, spew.Sdump(r))
	}
}

func TestRamUnpoweredFloats(t *testing.T) {
	r := NewRam256B()
	r.cs.Value = logic.Low
	r.we.Value = logic.Low
	r.Tick(time.Millisecond)
	for _, p := range []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3} {
		if p.Direction != pin.Floating {
			t.Errorf("unpowered RAM should leave IO floating, got %v", p.Direction)
		}
	}
}

// Property 5: a ROM is never mutated by a write-shaped protocol sequence.
func TestRomIsImmutable(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = uint8(i)
	}
	r := NewRom256B().WithData(data)
	r.vcc.Value = logic.High
	r.Tick(time.Millisecond)

	before := make([]byte, 256)
	for i := range before {
		before[i] = r.Peek(uint16(i))
	}

	addr := []*pin.Pin{&r.a0, &r.a1, &r.a2, &r.a3, &r.a4, &r.a5, &r.a6, &r.a7}
	io := []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3, &r.io4, &r.io5, &r.io6, &r.io7}
	pin.Write(addr, 0x10)
	r.cs.Value = logic.Low
	r.oe.Value = logic.High
	for _, p := range io {
		p.Direction = pin.Output
		p.Value = logic.Undefined
	}
	pin.Write(io, 0xFF) // nothing reads this; ROM has no WE pin
	r.Tick(time.Millisecond)

	after := make([]byte, 256)
	for i := range after {
		after[i] = r.Peek(uint16(i))
	}

	if diff := deep.Equal(before, after); diff != nil {
		t.Errorf("ROM contents changed: %v", diff)
	}
}

func TestRomReadsPreloadedByte(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	r := NewRom256B().WithData(data)
	r.vcc.Value = logic.High

	addr := []*pin.Pin{&r.a0, &r.a1, &r.a2, &r.a3, &r.a4, &r.a5, &r.a6, &r.a7}
	io := []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3, &r.io4, &r.io5, &r.io6, &r.io7}
	pin.Write(addr, 2)
	r.cs.Value = logic.Low
	r.oe.Value = logic.Low
	r.Tick(time.Millisecond)

	if got := pin.ReadThreshold(io, threshold); got != 0xBE {
		t.Errorf("ROM[2] read as %#x, want 0xbe", got)
	}
}

func TestRomWithDataTruncatesAndZeroPads(t *testing.T) {
	big := make([]byte, 300)
	for i := range big {
		big[i] = 0xFF
	}
	r := NewRom256B().WithData(big)
	if got := r.Peek(255); got != 0xFF {
		t.Errorf("last byte = %#x, want 0xff", got)
	}

	short := []byte{1, 2, 3}
	r2 := NewRom256B().WithData(short)
	if got := r2.Peek(3); got != 0 {
		t.Errorf("expected zero-pad beyond supplied data, got %#x", got)
	}
}
