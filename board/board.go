// Package board implements the tick scheduler: a Board owns chips
// and traces by opaque stable id and advances them in a fixed three-pass
// order each tick.
package board

import (
	"fmt"
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
	"github.com/jmchacon/icboard/trace"
)

// ChipID is an opaque handle to a registered chip. Ids are never reused
// within the lifetime of a Board, so a stale ChipID is simply absent from
// future lookups rather than aliasing a different chip.
type ChipID uint32

// TraceID is an opaque handle to a registered trace, with the same
// non-reuse guarantee as ChipID.
type TraceID uint32

// UnknownChipError reports a ChipID with no corresponding chip.
type UnknownChipError struct{ ID ChipID }

func (e UnknownChipError) Error() string { return fmt.Sprintf("board: unknown chip id %d", e.ID) }

// UnknownTraceError reports a TraceID with no corresponding trace.
type UnknownTraceError struct{ ID TraceID }

func (e UnknownTraceError) Error() string { return fmt.Sprintf("board: unknown trace id %d", e.ID) }

type chipSlot struct {
	id   ChipID
	chip chip.Chip
}

type traceSlot struct {
	id    TraceID
	trace *trace.Trace[ChipID]
}

// Board holds chips and traces by stable id and runs the tick loop.
type Board struct {
	nextChip  ChipID
	nextTrace TraceID
	chips     []chipSlot // insertion order
	traces    []traceSlot
}

// New returns an empty Board.
func New() *Board {
	return &Board{}
}

// RegisterChip adds c to the board and returns its new ChipID.
func (b *Board) RegisterChip(c chip.Chip) ChipID {
	b.nextChip++
	id := b.nextChip
	b.chips = append(b.chips, chipSlot{id: id, chip: c})
	return id
}

// RegisterTrace adds t to the board and returns its new TraceID.
func (b *Board) RegisterTrace(t *trace.Trace[ChipID]) TraceID {
	b.nextTrace++
	id := b.nextTrace
	b.traces = append(b.traces, traceSlot{id: id, trace: t})
	return id
}

// Connect is a convenience constructor for the common two-endpoint trace:
// it registers a new trace joining (a, pinA) and (b, pinB).
func (b *Board) Connect(a ChipID, pinA chip.PinID, bChip ChipID, pinB chip.PinID) TraceID {
	t := trace.New[ChipID]()
	t.Connect(a, pinA)
	t.Connect(bChip, pinB)
	return b.RegisterTrace(t)
}

// GetChip returns the chip registered under id.
func (b *Board) GetChip(id ChipID) (chip.Chip, bool) {
	for _, s := range b.chips {
		if s.id == id {
			return s.chip, true
		}
	}
	return nil, false
}

// GetTrace returns the trace registered under id.
func (b *Board) GetTrace(id TraceID) (*trace.Trace[ChipID], bool) {
	for _, s := range b.traces {
		if s.id == id {
			return s.trace, true
		}
	}
	return nil, false
}

// lookup adapts GetChip to trace.ChipLookup.
func (b *Board) lookup(id ChipID) (chip.Chip, bool) { return b.GetChip(id) }

// Run advances the board by exactly one tick of duration dt: reset every
// Input pin to Undefined, resolve every trace in insertion order, then
// advance every chip's Tick(dt) in insertion order. This is the Board
// driver's core three-pass step; the ordering is fixed and chip
// iteration order within the tick is deterministic.
func (b *Board) Run(dt time.Duration) {
	for _, s := range b.chips {
		for _, entry := range s.chip.ListPins() {
			if entry.Pin.Direction == pin.Input {
				entry.Pin.Value = logic.Undefined
			}
		}
	}
	for _, s := range b.traces {
		trace.Resolve(s.trace, b.lookup)
	}
	for _, s := range b.chips {
		s.chip.Tick(dt)
	}
}

// RunFor repeatedly calls Run with the given step until cumulative
// simulated time is at least duration.
func (b *Board) RunFor(duration, step time.Duration) {
	var elapsed time.Duration
	for elapsed < duration {
		b.Run(step)
		elapsed += step
	}
}

// RunRealtime advances the board in a wall-clock bounded loop, passing the
// measured wall delta as dt each iteration, until duration has elapsed.
func (b *Board) RunRealtime(duration time.Duration) {
	start := time.Now()
	last := time.Now()
	for time.Since(start) < duration {
		now := time.Now()
		b.Run(now.Sub(last))
		last = now
	}
}
