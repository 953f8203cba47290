package trace

import (
	"testing"
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

// stub is a minimal chip.Chip with a handful of fixed pins, for exercising
// trace resolution without pulling in a real device package.
type stub struct {
	pins map[chip.PinID]*pin.Pin
}

func newStub(pins map[chip.PinID]*pin.Pin) *stub { return &stub{pins: pins} }

func (s *stub) ListPins() []chip.PinEntry {
	var out []chip.PinEntry
	for id, p := range s.pins {
		out = append(out, chip.PinEntry{ID: id, Pin: p})
	}
	return out
}
func (s *stub) Pin(id chip.PinID) *pin.Pin { return s.pins[id] }
func (s *stub) Tick(time.Duration)         {}

func lookupFor(chips map[int]chip.Chip) ChipLookup[int] {
	return func(id int) (chip.Chip, bool) {
		c, ok := chips[id]
		return c, ok
	}
}

// Property 3: a Floating pin is never written by trace resolution.
func TestDirectionIsolation(t *testing.T) {
	out := &pin.Pin{Direction: pin.Output, Value: logic.High}
	floating := &pin.Pin{Direction: pin.Floating}
	a := newStub(map[chip.PinID]*pin.Pin{1: out})
	b := newStub(map[chip.PinID]*pin.Pin{1: floating})

	tr := New[int]()
	tr.Connect(0, 1)
	tr.Connect(1, 1)

	Resolve(tr, lookupFor(map[int]chip.Chip{0: a, 1: b}))

	if !floating.Value.IsUndefined() {
		t.Errorf("floating pin was written: %v", floating.Value)
	}
}

// Property 2: if any Output endpoint is High, every Input endpoint sees
// High after resolution.
func TestBusArbitration(t *testing.T) {
	high := &pin.Pin{Direction: pin.Output, Value: logic.High}
	low := &pin.Pin{Direction: pin.Output, Value: logic.Low}
	in1 := &pin.Pin{Direction: pin.Input}
	in2 := &pin.Pin{Direction: pin.Input}

	a := newStub(map[chip.PinID]*pin.Pin{1: high})
	b := newStub(map[chip.PinID]*pin.Pin{1: low})
	c := newStub(map[chip.PinID]*pin.Pin{1: in1})
	d := newStub(map[chip.PinID]*pin.Pin{1: in2})

	tr := New[int]()
	tr.Connect(0, 1)
	tr.Connect(1, 1)
	tr.Connect(2, 1)
	tr.Connect(3, 1)

	Resolve(tr, lookupFor(map[int]chip.Chip{0: a, 1: b, 2: c, 3: d}))

	if !in1.Value.IsHigh() || !in2.Value.IsHigh() {
		t.Errorf("expected both inputs High, got %v and %v", in1.Value, in2.Value)
	}
}

// Property 1: a trace whose chips never change state yields the same
// values on a second resolution.
func TestTraceIdempotence(t *testing.T) {
	out := &pin.Pin{Direction: pin.Output, Value: logic.High}
	in := &pin.Pin{Direction: pin.Input}
	a := newStub(map[chip.PinID]*pin.Pin{1: out})
	b := newStub(map[chip.PinID]*pin.Pin{1: in})

	tr := New[int]()
	tr.Connect(0, 1)
	tr.Connect(1, 1)
	lookup := lookupFor(map[int]chip.Chip{0: a, 1: b})

	Resolve(tr, lookup)
	first := in.Value
	Resolve(tr, lookup)
	second := in.Value

	if first != second {
		t.Errorf("trace resolution not idempotent: %v then %v", first, second)
	}
}

func TestDeadReferenceTolerated(t *testing.T) {
	out := &pin.Pin{Direction: pin.Output, Value: logic.High}
	in := &pin.Pin{Direction: pin.Input}
	a := newStub(map[chip.PinID]*pin.Pin{1: out})
	b := newStub(map[chip.PinID]*pin.Pin{1: in})

	tr := New[int]()
	tr.Connect(0, 1)
	tr.Connect(1, 1)
	tr.Connect(99, 5) // dead chip reference
	tr.Connect(0, 7)  // dead pin reference on a live chip

	Resolve(tr, lookupFor(map[int]chip.Chip{0: a, 1: b}))

	if !in.Value.IsHigh() {
		t.Errorf("expected dead references to be skipped, got %v", in.Value)
	}
}

func TestConnectDeduplicatesAndDisconnectRemoves(t *testing.T) {
	tr := New[int]()
	tr.Connect(0, 1)
	tr.Connect(0, 1)
	if got := len(tr.Endpoints()); got != 1 {
		t.Errorf("Connect should dedupe, got %d endpoints", got)
	}
	tr.Disconnect(0, 1)
	if got := len(tr.Endpoints()); got != 0 {
		t.Errorf("Disconnect should remove endpoint, got %d", got)
	}
}
