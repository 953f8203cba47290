// Package button implements the two-pin pass-through input device:
// external Press/Release calls toggle whether I is forwarded to O.
package button

import (
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

// Pin ids, matching the 2-pin button diagram.
const (
	IN  chip.PinID = 1
	OUT chip.PinID = 2
)

// Button forwards IN to OUT while held down, and drives OUT Undefined
// otherwise.
type Button struct {
	down    bool
	in, out pin.Pin
}

// New returns a released Button.
func New() *Button {
	return &Button{in: pin.Pin{Direction: pin.Input}, out: pin.Pin{Direction: pin.Output}}
}

// Press marks the button as held down.
func (b *Button) Press() { b.down = true }

// Release marks the button as released.
func (b *Button) Release() { b.down = false }

// Down reports whether the button is currently held.
func (b *Button) Down() bool { return b.down }

func (b *Button) ListPins() []chip.PinEntry {
	return []chip.PinEntry{{ID: IN, Pin: &b.in}, {ID: OUT, Pin: &b.out}}
}

func (b *Button) Pin(id chip.PinID) *pin.Pin {
	switch id {
	case IN:
		return &b.in
	case OUT:
		return &b.out
	default:
		return nil
	}
}

func (b *Button) Tick(time.Duration) {
	if b.down {
		b.out.Value = b.in.Value
	} else {
		b.out.Value = logic.Undefined
	}
}
