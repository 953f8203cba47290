package sevenseg

import (
	"testing"
	"time"

	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

func setNibble(d *Decoder, value uint) {
	pin.Write([]*pin.Pin{&d.ia, &d.ib, &d.ic, &d.id}, value)
}

func TestDecoderHexDigits(t *testing.T) {
	d := NewDecoder()
	d.vcc.Value = logic.High
	d.bi.Value = logic.High

	for v := uint(0); v < 16; v++ {
		setNibble(d, v)
		d.Tick(time.Millisecond)
		got := pin.Read([]*pin.Pin{&d.og, &d.of, &d.oe, &d.od, &d.oc, &d.ob, &d.oa})
		if got != segLUT[v] {
			t.Errorf("decode(%#x) = %#07b, want %#07b", v, got, segLUT[v])
		}
	}
}

func TestDecoderBlankingInput(t *testing.T) {
	d := NewDecoder()
	d.vcc.Value = logic.High
	d.bi.Value = logic.Low
	setNibble(d, 8) // all segments lit if not blanked
	d.Tick(time.Millisecond)

	got := pin.Read([]*pin.Pin{&d.og, &d.of, &d.oe, &d.od, &d.oc, &d.ob, &d.oa})
	if got != 0 {
		t.Errorf("blanked decode = %#07b, want all Low", got)
	}
}

func TestDecoderUnpoweredDrivesNothing(t *testing.T) {
	d := NewDecoder()
	d.bi.Value = logic.High
	setNibble(d, 8)
	d.Tick(time.Millisecond)
	if !d.oa.Value.IsUndefined() {
		t.Errorf("unpowered decoder drove OA = %v", d.oa.Value)
	}
}

func TestDisplayAsChar(t *testing.T) {
	tests := []struct {
		segs uint // g,f,e,d,c,b,a bit order, LSB=g
		want rune
	}{
		{0b1111110, '0'},
		{0b0110000, '1'},
		{0b1111011, '9'},
		{0b1110111, 'A'},
		{0b1000111, 'F'},
		{0b0000000, ' '},
		{0b0000001, '-'},
		{0b0001000, '_'},
		{0b1010101, '?'}, // no glyph for this pattern
	}
	s := NewDisplay()
	s.vcc.Value = logic.High
	for _, tc := range tests {
		pin.Write([]*pin.Pin{&s.g, &s.f, &s.e, &s.d, &s.c, &s.b, &s.a}, tc.segs)
		if got := s.AsChar(); got != tc.want {
			t.Errorf("AsChar(%#07b) = %q, want %q", tc.segs, got, tc.want)
		}
	}
}

func TestDisplayUnpoweredIsBlank(t *testing.T) {
	s := NewDisplay()
	pin.Write([]*pin.Pin{&s.g, &s.f, &s.e, &s.d, &s.c, &s.b, &s.a}, 0b1111111)
	if got := s.AsChar(); got != ' ' {
		t.Errorf("unpowered AsChar() = %q, want blank", got)
	}
}
