// Package chip defines the Chip interface implemented by every device
// model (gates, clocks, memories, the CPU, ...) and the small set of types
// shared across device packages.
package chip

import (
	"fmt"
	"time"

	"github.com/jmchacon/icboard/pin"
)

// PinID is a chip-local pin number, stable for the lifetime of the chip
// (matching the device's physical DIP numbering where one exists).
type PinID int

// Chip is the polymorphic interface every device kind implements. There is
// no closed sum type in Go for this; any struct satisfying Chip can be
// registered on a Board, which is how new device kinds are added without
// touching this package.
type Chip interface {
	// ListPins returns every (id, pin) pair the chip exposes. Order is
	// unspecified; callers that need a stable order should sort by id.
	ListPins() []PinEntry
	// Pin returns the pin at id, or nil if the chip has no such pin.
	Pin(id PinID) *pin.Pin
	// Tick advances dt worth of simulated time: consumes Input pins,
	// mutates Output pins and any internal state.
	Tick(dt time.Duration)
}

// PinEntry pairs a PinID with the pin it identifies.
type PinEntry struct {
	ID  PinID
	Pin *pin.Pin
}

// UnknownPinError reports a reference to a pin id a chip doesn't expose.
// Traces tolerate this silently; it exists so
// callers that want to be strict about it have something to type-switch
// on.
type UnknownPinError struct {
	Chip  string
	PinID PinID
}

func (e UnknownPinError) Error() string {
	return fmt.Sprintf("chip %s: unknown pin %d", e.Chip, e.PinID)
}
