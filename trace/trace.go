// Package trace implements bus resolution: a Trace is
// an ordered list of (chip, pin) endpoints that resolves to a single logic
// value per tick.
package trace

import (
	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

// ChipLookup resolves a chip-id-like key to a Chip, or (nil, false) if the
// id no longer refers to a live chip. Board supplies this; Trace itself
// holds no reference to a board so it stays trivially testable.
type ChipLookup[K comparable] func(K) (chip.Chip, bool)

// Endpoint is one (chip, pin) pair a Trace connects.
type Endpoint[K comparable] struct {
	Chip K
	Pin  chip.PinID
}

// Trace is an ordered, deduplicated list of endpoints representing a wire.
// Degenerate traces (zero or one endpoint) are legal no-ops.
type Trace[K comparable] struct {
	endpoints []Endpoint[K]
}

// New returns an empty Trace.
func New[K comparable]() *Trace[K] {
	return &Trace[K]{}
}

// Connect adds (c, p) to the trace if not already present.
func (t *Trace[K]) Connect(c K, p chip.PinID) {
	for _, e := range t.endpoints {
		if e.Chip == c && e.Pin == p {
			return
		}
	}
	t.endpoints = append(t.endpoints, Endpoint[K]{Chip: c, Pin: p})
}

// Disconnect removes every occurrence of (c, p) from the trace.
func (t *Trace[K]) Disconnect(c K, p chip.PinID) {
	out := t.endpoints[:0]
	for _, e := range t.endpoints {
		if e.Chip == c && e.Pin == p {
			continue
		}
		out = append(out, e)
	}
	t.endpoints = out
}

// Endpoints returns the trace's endpoint list in insertion order.
func (t *Trace[K]) Endpoints() []Endpoint[K] {
	return t.endpoints
}

// Resolve runs the two-phase resolution: collect from
// every live Output endpoint via logic.Feed, then distribute the result to
// every live Input endpoint. Endpoints whose chip no longer exists, or
// whose pin id is unknown to the chip, are skipped silently (dead
// references are tolerated). Floating endpoints participate in
// neither phase.
func Resolve[K comparable](t *Trace[K], lookup ChipLookup[K]) {
	acc := logic.Undefined
	for _, e := range t.endpoints {
		c, ok := lookup(e.Chip)
		if !ok {
			continue
		}
		p := c.Pin(e.Pin)
		if p == nil || p.Direction != pin.Output {
			continue
		}
		acc = logic.Feed(acc, p.Value)
	}
	for _, e := range t.endpoints {
		c, ok := lookup(e.Chip)
		if !ok {
			continue
		}
		p := c.Pin(e.Pin)
		if p == nil || p.Direction != pin.Input {
			continue
		}
		p.Value = logic.Feed(p.Value, acc)
	}
}
