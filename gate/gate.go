// Package gate implements the 14-pin DIP logic-gate chips: four
// copies of a 2-input gate, or three copies of a 3-input gate, sharing one
// VCC/GND pair.
package gate

import (
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

const threshold = 3.3

// Pin ids shared by every 2-input quad gate package (AndGate, NandGate,
// OrGate, NorGate): matches the conventional 14-pin DIP numbering.
const (
	A   chip.PinID = 1
	B   chip.PinID = 2
	AB  chip.PinID = 3
	C   chip.PinID = 4
	D   chip.PinID = 5
	CD  chip.PinID = 6
	GND chip.PinID = 7
	GH  chip.PinID = 8
	H   chip.PinID = 9
	G   chip.PinID = 10
	EF  chip.PinID = 11
	F   chip.PinID = 12
	E   chip.PinID = 13
	VCC chip.PinID = 14
)

// Pin ids for the 3-input triple gate packages (ThreeInputAndGate, etc.).
const (
	ThreeA   chip.PinID = 1
	ThreeB   chip.PinID = 2
	ThreeD   chip.PinID = 3
	ThreeE   chip.PinID = 4
	ThreeF   chip.PinID = 5
	ThreeDEF chip.PinID = 6
	ThreeGND chip.PinID = 7
	ThreeGHI chip.PinID = 8
	ThreeI   chip.PinID = 9
	ThreeH   chip.PinID = 10
	ThreeG   chip.PinID = 11
	ThreeABC chip.PinID = 12
	ThreeC   chip.PinID = 13
	ThreeVCC chip.PinID = 14
)

type quad struct {
	vcc, gnd pin.Pin
	a, b, ab pin.Pin
	c, d, cd pin.Pin
	e, f, ef pin.Pin
	g, h, gh pin.Pin
	op       func(x, y bool) bool
}

func newQuad(op func(x, y bool) bool) *quad {
	return &quad{
		vcc: pin.Pin{Direction: pin.Input},
		gnd: pin.Pin{Direction: pin.Output},
		a:   pin.Pin{Direction: pin.Input},
		b:   pin.Pin{Direction: pin.Input},
		ab:  pin.Pin{Direction: pin.Output},
		c:   pin.Pin{Direction: pin.Input},
		d:   pin.Pin{Direction: pin.Input},
		cd:  pin.Pin{Direction: pin.Output},
		e:   pin.Pin{Direction: pin.Input},
		f:   pin.Pin{Direction: pin.Input},
		ef:  pin.Pin{Direction: pin.Output},
		g:   pin.Pin{Direction: pin.Input},
		h:   pin.Pin{Direction: pin.Input},
		gh:  pin.Pin{Direction: pin.Output},
		op:  op,
	}
}

func (q *quad) listPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: VCC, Pin: &q.vcc}, {ID: GND, Pin: &q.gnd},
		{ID: A, Pin: &q.a}, {ID: B, Pin: &q.b}, {ID: AB, Pin: &q.ab},
		{ID: C, Pin: &q.c}, {ID: D, Pin: &q.d}, {ID: CD, Pin: &q.cd},
		{ID: E, Pin: &q.e}, {ID: F, Pin: &q.f}, {ID: EF, Pin: &q.ef},
		{ID: G, Pin: &q.g}, {ID: H, Pin: &q.h}, {ID: GH, Pin: &q.gh},
	}
}

func (q *quad) pin(id chip.PinID) *pin.Pin {
	for _, e := range q.listPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (q *quad) tick(time.Duration) {
	if q.vcc.Value.AsLogic(threshold) != logic.High {
		return
	}
	q.gnd.Value = logic.Low
	q.ab.Value = logic.FromBool(q.op(q.a.Value.AsLogic(threshold).Bool(), q.b.Value.AsLogic(threshold).Bool()))
	q.cd.Value = logic.FromBool(q.op(q.c.Value.AsLogic(threshold).Bool(), q.d.Value.AsLogic(threshold).Bool()))
	q.ef.Value = logic.FromBool(q.op(q.e.Value.AsLogic(threshold).Bool(), q.f.Value.AsLogic(threshold).Bool()))
	q.gh.Value = logic.FromBool(q.op(q.g.Value.AsLogic(threshold).Bool(), q.h.Value.AsLogic(threshold).Bool()))
}

// AndGate is a quad 2-input AND gate package.
type AndGate struct{ *quad }

// NewAndGate returns an unpowered AndGate.
func NewAndGate() *AndGate {
	return &AndGate{newQuad(func(x, y bool) bool { return x && y })}
}

func (g *AndGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *AndGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *AndGate) Tick(dt time.Duration)      { g.tick(dt) }

// NandGate is a quad 2-input NAND gate package.
type NandGate struct{ *quad }

// NewNandGate returns an unpowered NandGate.
func NewNandGate() *NandGate {
	return &NandGate{newQuad(func(x, y bool) bool { return !(x && y) })}
}

func (g *NandGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *NandGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *NandGate) Tick(dt time.Duration)      { g.tick(dt) }

// OrGate is a quad 2-input OR gate package.
type OrGate struct{ *quad }

// NewOrGate returns an unpowered OrGate.
func NewOrGate() *OrGate { return &OrGate{newQuad(func(x, y bool) bool { return x || y })} }

func (g *OrGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *OrGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *OrGate) Tick(dt time.Duration)      { g.tick(dt) }

// NorGate is a quad 2-input NOR gate package.
type NorGate struct{ *quad }

// NewNorGate returns an unpowered NorGate.
func NewNorGate() *NorGate {
	return &NorGate{newQuad(func(x, y bool) bool { return !(x || y) })}
}

func (g *NorGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *NorGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *NorGate) Tick(dt time.Duration)      { g.tick(dt) }

// NotGate is a hex inverter package: 6 independent NOT gates, pin numbers
// A/!A, B/!B, C/!C, D/!D, E/!E, F/!F around a shared VCC/GND.
type NotGate struct {
	vcc, gnd                  pin.Pin
	a, notA, b, notB, c, notC pin.Pin
	d, notD, e, notE, f, notF pin.Pin
}

const (
	NotA    chip.PinID = 1
	NotNotA chip.PinID = 2
	NotB    chip.PinID = 3
	NotNotB chip.PinID = 4
	NotC    chip.PinID = 5
	NotNotC chip.PinID = 6
	NotGND  chip.PinID = 7
	NotNotF chip.PinID = 8
	NotF    chip.PinID = 9
	NotNotE chip.PinID = 10
	NotE    chip.PinID = 11
	NotNotD chip.PinID = 12
	NotD    chip.PinID = 13
	NotVCC  chip.PinID = 14
)

// NewNotGate returns an unpowered NotGate.
func NewNotGate() *NotGate {
	return &NotGate{
		vcc: pin.Pin{Direction: pin.Input}, gnd: pin.Pin{Direction: pin.Output},
		a: pin.Pin{Direction: pin.Input}, notA: pin.Pin{Direction: pin.Output},
		b: pin.Pin{Direction: pin.Input}, notB: pin.Pin{Direction: pin.Output},
		c: pin.Pin{Direction: pin.Input}, notC: pin.Pin{Direction: pin.Output},
		d: pin.Pin{Direction: pin.Input}, notD: pin.Pin{Direction: pin.Output},
		e: pin.Pin{Direction: pin.Input}, notE: pin.Pin{Direction: pin.Output},
		f: pin.Pin{Direction: pin.Input}, notF: pin.Pin{Direction: pin.Output},
	}
}

func (g *NotGate) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: NotVCC, Pin: &g.vcc}, {ID: NotGND, Pin: &g.gnd},
		{ID: NotA, Pin: &g.a}, {ID: NotNotA, Pin: &g.notA},
		{ID: NotB, Pin: &g.b}, {ID: NotNotB, Pin: &g.notB},
		{ID: NotC, Pin: &g.c}, {ID: NotNotC, Pin: &g.notC},
		{ID: NotD, Pin: &g.d}, {ID: NotNotD, Pin: &g.notD},
		{ID: NotE, Pin: &g.e}, {ID: NotNotE, Pin: &g.notE},
		{ID: NotF, Pin: &g.f}, {ID: NotNotF, Pin: &g.notF},
	}
}

func (g *NotGate) Pin(id chip.PinID) *pin.Pin {
	for _, e := range g.ListPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (g *NotGate) Tick(time.Duration) {
	if g.vcc.Value.AsLogic(threshold) != logic.High {
		return
	}
	g.gnd.Value = logic.Low
	g.notA.Value = logic.FromBool(!g.a.Value.AsLogic(threshold).Bool())
	g.notB.Value = logic.FromBool(!g.b.Value.AsLogic(threshold).Bool())
	g.notC.Value = logic.FromBool(!g.c.Value.AsLogic(threshold).Bool())
	g.notD.Value = logic.FromBool(!g.d.Value.AsLogic(threshold).Bool())
	g.notE.Value = logic.FromBool(!g.e.Value.AsLogic(threshold).Bool())
	g.notF.Value = logic.FromBool(!g.f.Value.AsLogic(threshold).Bool())
}

type triple struct {
	vcc, gnd pin.Pin
	a, b, c  pin.Pin
	abc      pin.Pin
	d, e, f  pin.Pin
	def      pin.Pin
	g, h, i  pin.Pin
	ghi      pin.Pin
	op       func(x, y, z bool) bool
}

func newTriple(op func(x, y, z bool) bool) *triple {
	return &triple{
		vcc: pin.Pin{Direction: pin.Input}, gnd: pin.Pin{Direction: pin.Output},
		a: pin.Pin{Direction: pin.Input}, b: pin.Pin{Direction: pin.Input}, c: pin.Pin{Direction: pin.Input},
		abc: pin.Pin{Direction: pin.Output},
		d:   pin.Pin{Direction: pin.Input}, e: pin.Pin{Direction: pin.Input}, f: pin.Pin{Direction: pin.Input},
		def: pin.Pin{Direction: pin.Output},
		g:   pin.Pin{Direction: pin.Input}, h: pin.Pin{Direction: pin.Input}, i: pin.Pin{Direction: pin.Input},
		ghi: pin.Pin{Direction: pin.Output},
		op:  op,
	}
}

func (t *triple) listPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: ThreeVCC, Pin: &t.vcc}, {ID: ThreeGND, Pin: &t.gnd},
		{ID: ThreeA, Pin: &t.a}, {ID: ThreeB, Pin: &t.b}, {ID: ThreeC, Pin: &t.c}, {ID: ThreeABC, Pin: &t.abc},
		{ID: ThreeD, Pin: &t.d}, {ID: ThreeE, Pin: &t.e}, {ID: ThreeF, Pin: &t.f}, {ID: ThreeDEF, Pin: &t.def},
		{ID: ThreeG, Pin: &t.g}, {ID: ThreeH, Pin: &t.h}, {ID: ThreeI, Pin: &t.i}, {ID: ThreeGHI, Pin: &t.ghi},
	}
}

func (t *triple) pin(id chip.PinID) *pin.Pin {
	for _, e := range t.listPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (t *triple) tick(time.Duration) {
	if t.vcc.Value.AsLogic(threshold) != logic.High {
		return
	}
	t.gnd.Value = logic.Low
	t.abc.Value = logic.FromBool(t.op(t.a.Value.AsLogic(threshold).Bool(), t.b.Value.AsLogic(threshold).Bool(), t.c.Value.AsLogic(threshold).Bool()))
	t.def.Value = logic.FromBool(t.op(t.d.Value.AsLogic(threshold).Bool(), t.e.Value.AsLogic(threshold).Bool(), t.f.Value.AsLogic(threshold).Bool()))
	t.ghi.Value = logic.FromBool(t.op(t.g.Value.AsLogic(threshold).Bool(), t.h.Value.AsLogic(threshold).Bool(), t.i.Value.AsLogic(threshold).Bool()))
}

// ThreeInputAndGate is a triple 3-input AND gate package.
type ThreeInputAndGate struct{ *triple }

func NewThreeInputAndGate() *ThreeInputAndGate {
	return &ThreeInputAndGate{newTriple(func(x, y, z bool) bool { return x && y && z })}
}
func (g *ThreeInputAndGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *ThreeInputAndGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *ThreeInputAndGate) Tick(dt time.Duration)      { g.tick(dt) }

// ThreeInputNandGate is a triple 3-input NAND gate package.
type ThreeInputNandGate struct{ *triple }

func NewThreeInputNandGate() *ThreeInputNandGate {
	return &ThreeInputNandGate{newTriple(func(x, y, z bool) bool { return !(x && y && z) })}
}
func (g *ThreeInputNandGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *ThreeInputNandGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *ThreeInputNandGate) Tick(dt time.Duration)      { g.tick(dt) }

// ThreeInputOrGate is a triple 3-input OR gate package.
type ThreeInputOrGate struct{ *triple }

func NewThreeInputOrGate() *ThreeInputOrGate {
	return &ThreeInputOrGate{newTriple(func(x, y, z bool) bool { return x || y || z })}
}
func (g *ThreeInputOrGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *ThreeInputOrGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *ThreeInputOrGate) Tick(dt time.Duration)      { g.tick(dt) }

// ThreeInputNorGate is a triple 3-input NOR gate package.
type ThreeInputNorGate struct{ *triple }

func NewThreeInputNorGate() *ThreeInputNorGate {
	return &ThreeInputNorGate{newTriple(func(x, y, z bool) bool { return !(x || y || z) })}
}
func (g *ThreeInputNorGate) ListPins() []chip.PinEntry  { return g.listPins() }
func (g *ThreeInputNorGate) Pin(id chip.PinID) *pin.Pin { return g.pin(id) }
func (g *ThreeInputNorGate) Tick(dt time.Duration)      { g.tick(dt) }
