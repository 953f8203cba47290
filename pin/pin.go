// Package pin defines the electrical endpoint type shared by every chip
// model, plus the bus-width read/write primitives built on top of it.
package pin

import "github.com/jmchacon/icboard/logic"

// Direction is the drive direction of a Pin.
type Direction uint8

const (
	// Floating pins neither drive nor read; they sit outside trace
	// resolution entirely until their owner chip sets a live direction.
	Floating Direction = iota
	Input
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	default:
		return "Floating"
	}
}

// Pin is a named electrical endpoint on a chip.
type Pin struct {
	Direction Direction
	Value     logic.Value
}

// New returns a Pin with the given direction and an Undefined value.
func New(d Direction) *Pin {
	return &Pin{Direction: d}
}

// Read interprets each pin's boolean coercion as bit i (LSB first) of an
// unsigned integer. Infallible.
func Read(pins []*Pin) uint {
	var sum uint
	for i, p := range pins {
		if p.Value.Bool() {
			sum |= 1 << uint(i)
		}
	}
	return sum
}

// ReadThreshold is Read, but each pin is first collapsed via AsLogic(vth).
func ReadThreshold(pins []*Pin, vth float64) uint {
	var sum uint
	for i, p := range pins {
		if p.Value.AsLogic(vth).Bool() {
			sum |= 1 << uint(i)
		}
	}
	return sum
}

// Write sets pin i to High iff bit i of value is set, else Low. It returns
// true iff bits above the pin count remain set in value (overflow).
func Write(pins []*Pin, value uint) bool {
	for i, p := range pins {
		bit := uint(1) << uint(i)
		p.Value = logic.FromBool(value&bit != 0)
		value &^= bit
	}
	return value > 0
}
