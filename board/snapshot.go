package board

import (
	"fmt"
	"time"

	"github.com/jmchacon/icboard/button"
	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/clock"
	"github.com/jmchacon/icboard/cpu"
	"github.com/jmchacon/icboard/gate"
	"github.com/jmchacon/icboard/generator"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/memchip"
	"github.com/jmchacon/icboard/pin"
	"github.com/jmchacon/icboard/sevenseg"
	"github.com/jmchacon/icboard/trace"
)

// valueSnapshot is a JSON-friendly rendering of a logic.Value.
type valueSnapshot struct {
	Kind    string  `json:"kind"` // "undefined", "low", "high", "analog"
	Voltage float64 `json:"voltage,omitempty"`
}

func encodeValue(v logic.Value) valueSnapshot {
	switch {
	case v.IsHigh():
		return valueSnapshot{Kind: "high"}
	case v.IsLow():
		return valueSnapshot{Kind: "low"}
	case v.IsAnalog():
		return valueSnapshot{Kind: "analog", Voltage: v.Voltage()}
	default:
		return valueSnapshot{Kind: "undefined"}
	}
}

func decodeValue(s valueSnapshot) logic.Value {
	switch s.Kind {
	case "high":
		return logic.High
	case "low":
		return logic.Low
	case "analog":
		return logic.Analog(s.Voltage)
	default:
		return logic.Undefined
	}
}

// pinSnapshot captures one chip pin's generic state: direction and current
// value. This is all every device kind needs beyond its own internal state,
// since a chip's behavior is entirely determined by its pins plus whatever
// it remembers between ticks.
type pinSnapshot struct {
	ID        chip.PinID    `json:"id"`
	Direction pin.Direction `json:"direction"`
	Value     valueSnapshot `json:"value"`
}

func snapshotPins(c chip.Chip) []pinSnapshot {
	entries := c.ListPins()
	out := make([]pinSnapshot, len(entries))
	for i, e := range entries {
		out[i] = pinSnapshot{ID: e.ID, Direction: e.Pin.Direction, Value: encodeValue(e.Pin.Value)}
	}
	return out
}

func restorePins(c chip.Chip, pins []pinSnapshot) {
	for _, ps := range pins {
		if p := c.Pin(ps.ID); p != nil {
			p.Direction = ps.Direction
			p.Value = decodeValue(ps.Value)
		}
	}
}

// chipSnapshot captures one registered chip: its id, its concrete kind (so
// Restore knows which constructor to call), its generic pin state, and
// whatever kind-specific internal state it carries beyond its pins.
type chipSnapshot struct {
	ID   ChipID        `json:"id"`
	Kind string        `json:"kind"`
	Pins []pinSnapshot `json:"pins"`

	// Kind-specific state, populated for exactly one of these depending on
	// Kind. Left zero-valued otherwise.
	Bytes   []uint8            `json:"bytes,omitempty"`
	Powered bool               `json:"powered,omitempty"`
	Level   *valueSnapshot     `json:"level,omitempty"`
	Down    bool               `json:"down,omitempty"`
	Clock   *clockSnapshot     `json:"clock,omitempty"`
	CPU     *cpu.StateSnapshot `json:"cpu,omitempty"`
}

type clockSnapshot struct {
	HalfPeriod time.Duration `json:"half_period"`
	Accum      time.Duration `json:"accum"`
	Active     bool          `json:"active"`
}

// endpointSnapshot captures one endpoint of a trace.
type endpointSnapshot struct {
	Chip ChipID     `json:"chip"`
	Pin  chip.PinID `json:"pin"`
}

// traceSnapshot captures one registered trace's endpoint list.
type traceSnapshot struct {
	ID        TraceID            `json:"id"`
	Endpoints []endpointSnapshot `json:"endpoints"`
}

// Snapshot is the serializable state of an entire Board: every chip's
// identity, pins, and internal state, plus every trace's wiring. Dispatch
// across device kinds is a type switch in the single place that needs it,
// snapshotChip/restoreChip below.
type Snapshot struct {
	Chips  []chipSnapshot  `json:"chips"`
	Traces []traceSnapshot `json:"traces"`
}

// Snapshot captures b's complete state: every chip (generic pins plus
// kind-specific internals) and every trace's wiring, in registration order.
func (b *Board) Snapshot() Snapshot {
	out := Snapshot{}
	for _, s := range b.chips {
		out.Chips = append(out.Chips, snapshotChip(s.id, s.chip))
	}
	for _, s := range b.traces {
		ts := traceSnapshot{ID: s.id}
		for _, e := range s.trace.Endpoints() {
			ts.Endpoints = append(ts.Endpoints, endpointSnapshot{Chip: e.Chip, Pin: e.Pin})
		}
		out.Traces = append(out.Traces, ts)
	}
	return out
}

// Restore rebuilds a Board from a Snapshot. Chips and traces are
// re-registered in the order they appear in the snapshot, which reproduces
// their original ids exactly since Board never reuses or reorders ids.
func Restore(s Snapshot) (*Board, error) {
	b := New()
	for _, cs := range s.Chips {
		c, err := restoreChip(cs)
		if err != nil {
			return nil, err
		}
		id := b.RegisterChip(c)
		if id != cs.ID {
			return nil, fmt.Errorf("board: snapshot chip id %d would restore as %d (snapshot not taken in registration order)", cs.ID, id)
		}
	}
	for _, ts := range s.Traces {
		t := trace.New[ChipID]()
		for _, e := range ts.Endpoints {
			t.Connect(e.Chip, e.Pin)
		}
		id := b.RegisterTrace(t)
		if id != ts.ID {
			return nil, fmt.Errorf("board: snapshot trace id %d would restore as %d (snapshot not taken in registration order)", ts.ID, id)
		}
	}
	return b, nil
}

// snapshotChip dispatches on c's concrete type to capture any internal
// state beyond its pins. Gate chips are purely combinational and the
// sevenseg package's chips hold no state beyond their pins, so neither
// needs a case here beyond the generic pin capture every kind gets.
func snapshotChip(id ChipID, c chip.Chip) chipSnapshot {
	out := chipSnapshot{ID: id, Pins: snapshotPins(c)}
	switch v := c.(type) {
	case *gate.AndGate:
		out.Kind = "and_gate"
	case *gate.NandGate:
		out.Kind = "nand_gate"
	case *gate.OrGate:
		out.Kind = "or_gate"
	case *gate.NorGate:
		out.Kind = "nor_gate"
	case *gate.NotGate:
		out.Kind = "not_gate"
	case *gate.ThreeInputAndGate:
		out.Kind = "three_and_gate"
	case *gate.ThreeInputNandGate:
		out.Kind = "three_nand_gate"
	case *gate.ThreeInputOrGate:
		out.Kind = "three_or_gate"
	case *gate.ThreeInputNorGate:
		out.Kind = "three_nor_gate"
	case *sevenseg.Decoder:
		out.Kind = "sevenseg_decoder"
	case *sevenseg.Display:
		out.Kind = "sevenseg_display"
	case *clock.Clock:
		out.Kind = "clock"
		out.Clock = &clockSnapshot{HalfPeriod: v.HalfPeriod(), Accum: v.Accum(), Active: v.Active()}
	case *generator.Generator:
		out.Kind = "generator"
		lv := encodeValue(v.Level())
		out.Level = &lv
	case *button.Button:
		out.Kind = "button"
		out.Down = v.Down()
	case *memchip.Ram256B:
		out.Kind = "ram256"
		out.Bytes = v.Bytes()
		out.Powered = v.Powered()
	case *memchip.Ram8KB:
		out.Kind = "ram8k"
		out.Bytes = v.Bytes()
		out.Powered = v.Powered()
	case *memchip.Rom256B:
		out.Kind = "rom256"
		out.Bytes = v.Bytes()
		out.Powered = v.Powered()
	case *memchip.Rom8KB:
		out.Kind = "rom8k"
		out.Bytes = v.Bytes()
		out.Powered = v.Powered()
	case *cpu.NES6502:
		out.Kind = "cpu6502"
		state := v.ExportState()
		out.CPU = &state
	default:
		out.Kind = fmt.Sprintf("unknown:%T", c)
	}
	return out
}

// restoreChip reconstructs a single chip from its snapshot: builds the
// concrete type, restores its pins, then restores kind-specific state.
func restoreChip(cs chipSnapshot) (chip.Chip, error) {
	var c chip.Chip
	switch cs.Kind {
	case "and_gate":
		c = gate.NewAndGate()
	case "nand_gate":
		c = gate.NewNandGate()
	case "or_gate":
		c = gate.NewOrGate()
	case "nor_gate":
		c = gate.NewNorGate()
	case "not_gate":
		c = gate.NewNotGate()
	case "three_and_gate":
		c = gate.NewThreeInputAndGate()
	case "three_nand_gate":
		c = gate.NewThreeInputNandGate()
	case "three_or_gate":
		c = gate.NewThreeInputOrGate()
	case "three_nor_gate":
		c = gate.NewThreeInputNorGate()
	case "sevenseg_decoder":
		c = sevenseg.NewDecoder()
	case "sevenseg_display":
		c = sevenseg.NewDisplay()
	case "clock":
		cl := clock.New()
		if cs.Clock != nil {
			cl.Restore(cs.Clock.HalfPeriod, cs.Clock.Accum, cs.Clock.Active)
		}
		c = cl
	case "generator":
		g := generator.New()
		if cs.Level != nil {
			g.WithState(decodeValue(*cs.Level))
		}
		c = g
	case "button":
		bt := button.New()
		if cs.Down {
			bt.Press()
		}
		c = bt
	case "ram256":
		r := memchip.NewRam256B()
		r.SetBytes(cs.Bytes)
		r.SetPowered(cs.Powered)
		c = r
	case "ram8k":
		r := memchip.NewRam8KB()
		r.SetBytes(cs.Bytes)
		r.SetPowered(cs.Powered)
		c = r
	case "rom256":
		r := memchip.NewRom256B()
		r.SetBytes(cs.Bytes)
		r.SetPowered(cs.Powered)
		c = r
	case "rom8k":
		r := memchip.NewRom8KB()
		r.SetBytes(cs.Bytes)
		r.SetPowered(cs.Powered)
		c = r
	case "cpu6502":
		cp := cpu.New()
		if cs.CPU != nil {
			cp.ImportState(*cs.CPU)
		}
		c = cp
	default:
		return nil, fmt.Errorf("board: cannot restore chip of unknown kind %q", cs.Kind)
	}
	restorePins(c, cs.Pins)
	return c, nil
}
