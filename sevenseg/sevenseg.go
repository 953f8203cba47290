// Package sevenseg implements the combinational 4-to-7 segment decoder and
// the passive segment display.
package sevenseg

import (
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

const threshold = 3.3

// segLUT maps a 4-bit hex digit to its 7-segment pattern, bit order
// g,f,e,d,c,b,a (LSB=g).
var segLUT = [16]uint{
	0b1111110, 0b0110000, 0b1101101, 0b1111001,
	0b0110011, 0b1011011, 0b1011111, 0b1110000,
	0b1111111, 0b1111011, 0b1110111, 0b0011111,
	0b0001101, 0b0111101, 0b1001111, 0b1000111,
}

// Decoder pin ids.
const (
	DecoderB   chip.PinID = 1
	DecoderC   chip.PinID = 2
	DecoderBI  chip.PinID = 3
	DecoderD   chip.PinID = 4
	DecoderA   chip.PinID = 5
	DecoderOE  chip.PinID = 6 // segment e output
	DecoderGND chip.PinID = 7
	DecoderOD  chip.PinID = 8
	DecoderOC  chip.PinID = 9
	DecoderOB  chip.PinID = 10
	DecoderOA  chip.PinID = 11
	DecoderOG  chip.PinID = 12
	DecoderOF  chip.PinID = 13
	DecoderVCC chip.PinID = 14
)

// Decoder is a combinational 4-bit-to-7-segment decoder with active-low
// blanking.
type Decoder struct {
	vcc, gnd                   pin.Pin
	bi                         pin.Pin
	ia, ib, ic, id             pin.Pin
	oa, ob, oc, od, oe, of, og pin.Pin
}

// NewDecoder returns an unpowered Decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		vcc: pin.Pin{Direction: pin.Input}, gnd: pin.Pin{Direction: pin.Output},
		bi: pin.Pin{Direction: pin.Input},
		ia: pin.Pin{Direction: pin.Input}, ib: pin.Pin{Direction: pin.Input},
		ic: pin.Pin{Direction: pin.Input}, id: pin.Pin{Direction: pin.Input},
		oa: pin.Pin{Direction: pin.Output}, ob: pin.Pin{Direction: pin.Output},
		oc: pin.Pin{Direction: pin.Output}, od: pin.Pin{Direction: pin.Output},
		oe: pin.Pin{Direction: pin.Output}, of: pin.Pin{Direction: pin.Output},
		og: pin.Pin{Direction: pin.Output},
	}
}

func (d *Decoder) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: DecoderVCC, Pin: &d.vcc}, {ID: DecoderGND, Pin: &d.gnd},
		{ID: DecoderBI, Pin: &d.bi},
		{ID: DecoderA, Pin: &d.ia}, {ID: DecoderB, Pin: &d.ib}, {ID: DecoderC, Pin: &d.ic}, {ID: DecoderD, Pin: &d.id},
		{ID: DecoderOA, Pin: &d.oa}, {ID: DecoderOB, Pin: &d.ob}, {ID: DecoderOC, Pin: &d.oc}, {ID: DecoderOD, Pin: &d.od},
		{ID: DecoderOE, Pin: &d.oe}, {ID: DecoderOF, Pin: &d.of}, {ID: DecoderOG, Pin: &d.og},
	}
}

func (d *Decoder) Pin(id chip.PinID) *pin.Pin {
	for _, e := range d.ListPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

// Tick drives the decode: when powered and BI is high, drive the looked-up
// segment pattern for the 4-bit IA..ID value; when BI is low, blank every
// segment.
func (d *Decoder) Tick(time.Duration) {
	if d.vcc.Value.AsLogic(threshold) != logic.High {
		return
	}
	d.gnd.Value = logic.Low

	var pattern uint
	if d.bi.Value.AsLogic(threshold) == logic.High {
		data := pin.ReadThreshold([]*pin.Pin{&d.ia, &d.ib, &d.ic, &d.id}, threshold)
		pattern = segLUT[data&0xF]
	}
	pin.Write([]*pin.Pin{&d.og, &d.of, &d.oe, &d.od, &d.oc, &d.ob, &d.oa}, pattern)
}

// Display pin ids.
const (
	DisplayA   chip.PinID = 1
	DisplayB   chip.PinID = 2
	DisplayC   chip.PinID = 3
	DisplayD   chip.PinID = 4
	DisplayE   chip.PinID = 5
	DisplayF   chip.PinID = 6
	DisplayG   chip.PinID = 7
	DisplayGND chip.PinID = 8
	DisplayVCC chip.PinID = 9
)

// Display is a passive 7-segment sink whose only behavior is to expose a
// character projection of its current segment state for observability.
type Display struct {
	vcc, gnd            pin.Pin
	a, b, c, d, e, f, g pin.Pin
}

// NewDisplay returns an unpowered Display.
func NewDisplay() *Display {
	return &Display{
		vcc: pin.Pin{Direction: pin.Input}, gnd: pin.Pin{Direction: pin.Output},
		a: pin.Pin{Direction: pin.Input}, b: pin.Pin{Direction: pin.Input}, c: pin.Pin{Direction: pin.Input},
		d: pin.Pin{Direction: pin.Input}, e: pin.Pin{Direction: pin.Input}, f: pin.Pin{Direction: pin.Input},
		g: pin.Pin{Direction: pin.Input},
	}
}

func (s *Display) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: DisplayVCC, Pin: &s.vcc}, {ID: DisplayGND, Pin: &s.gnd},
		{ID: DisplayA, Pin: &s.a}, {ID: DisplayB, Pin: &s.b}, {ID: DisplayC, Pin: &s.c}, {ID: DisplayD, Pin: &s.d},
		{ID: DisplayE, Pin: &s.e}, {ID: DisplayF, Pin: &s.f}, {ID: DisplayG, Pin: &s.g},
	}
}

func (s *Display) Pin(id chip.PinID) *pin.Pin {
	for _, e := range s.ListPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (s *Display) Tick(time.Duration) {
	if s.vcc.Value.Bool() {
		s.gnd.Value = logic.Low
	}
}

// segBits returns the seven segments as a g,f,e,d,c,b,a ordered bitfield.
func (s *Display) segBits() uint {
	return pin.Read([]*pin.Pin{&s.g, &s.f, &s.e, &s.d, &s.c, &s.b, &s.a})
}

// Segments reports which of the seven segments (a through g) are
// currently lit, for callers that render the digit graphically rather
// than projecting it to a character.
func (s *Display) Segments() [7]bool {
	return [7]bool{
		s.a.Value.Bool(), s.b.Value.Bool(), s.c.Value.Bool(), s.d.Value.Bool(),
		s.e.Value.Bool(), s.f.Value.Bool(), s.g.Value.Bool(),
	}
}

// AsChar projects the display's current segment pattern to a character.
// Unknown non-blank patterns map to '?'.
func (s *Display) AsChar() rune {
	if !s.vcc.Value.Bool() {
		return ' '
	}
	switch s.segBits() {
	case 0b0000000:
		return ' '
	case 0b1111110:
		return '0'
	case 0b0110000:
		return '1'
	case 0b1101101:
		return '2'
	case 0b1111001:
		return '3'
	case 0b0110011:
		return '4'
	case 0b1011011:
		return '5'
	case 0b1011111:
		return '6'
	case 0b1110000, 0b1110010:
		return '7'
	case 0b1111111:
		return '8'
	case 0b1111011:
		return '9'
	case 0b1110111:
		return 'A'
	case 0b0011111:
		return 'b'
	case 0b1001110:
		return 'C'
	case 0b0001101:
		return 'c'
	case 0b0111101:
		return 'd'
	case 0b1001111:
		return 'E'
	case 0b1000111:
		return 'F'
	case 0b1011110:
		return 'G'
	case 0b0110111:
		return 'H'
	case 0b0010111:
		return 'h'
	case 0b0111100:
		return 'J'
	case 0b0001110:
		return 'L'
	case 0b0001100:
		return 'l'
	case 0b1110110:
		return 'M'
	case 0b0010101:
		return 'n'
	case 0b0011101:
		return 'o'
	case 0b1100111:
		return 'p'
	case 0b1110011:
		return 'q'
	case 0b0001111:
		return 't'
	case 0b0111110:
		return 'U'
	case 0b0011100:
		return 'u'
	case 0b0111011:
		return 'y'
	case 0b0001000:
		return '_'
	case 0b0000001:
		return '-'
	case 0b0001001, 0b1001000:
		return '='
	default:
		return '?'
	}
}
