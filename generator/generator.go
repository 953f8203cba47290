// Package generator implements the fixed-level signal source,
// used to produce VCC/GND rails and other constant drivers.
package generator

import (
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

// OUT is the generator's single pin id.
const OUT chip.PinID = 1

// Generator holds a single Output pin at a configurable level, rewriting
// it on every tick.
type Generator struct {
	level logic.Value
	out   pin.Pin
}

// New returns a Generator defaulted to High.
func New() *Generator {
	return &Generator{level: logic.High, out: pin.Pin{Direction: pin.Output, Value: logic.High}}
}

// WithState sets the level the generator drives.
func (g *Generator) WithState(v logic.Value) *Generator {
	g.level = v
	g.out.Value = v
	return g
}

// Level returns the currently configured drive level, for snapshotting.
func (g *Generator) Level() logic.Value { return g.level }

func (g *Generator) ListPins() []chip.PinEntry { return []chip.PinEntry{{ID: OUT, Pin: &g.out}} }
func (g *Generator) Pin(id chip.PinID) *pin.Pin {
	if id == OUT {
		return &g.out
	}
	return nil
}
func (g *Generator) Tick(time.Duration) { g.out.Value = g.level }
