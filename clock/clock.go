// Package clock implements the configurable square-wave Clock chip.
package clock

import (
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

// Pin ids, matching the conventional 4-pin clock DIP.
const (
	CLK        chip.PinID = 1
	GND        chip.PinID = 2
	CLK3Unused chip.PinID = 3
	VCC        chip.PinID = 4
)

// Event reports the CLK level after a powered Tick.
type Event struct {
	State logic.Value
}

// Clock produces a square wave on CLK while VCC reads High, at a
// configurable frequency translated to a half-period duration.
type Clock struct {
	halfPeriod time.Duration
	accum      time.Duration
	active     bool

	listeners chip.Listeners[Event]

	vcc, gnd, clk pin.Pin
}

// New returns a Clock defaulted to 1 Hz.
func New() *Clock {
	return &Clock{
		halfPeriod: time.Second / 2,
		vcc:        pin.Pin{Direction: pin.Input},
		gnd:        pin.Pin{Direction: pin.Output},
		clk:        pin.Pin{Direction: pin.Output},
	}
}

// WithFrequency sets the clock's frequency in Hz, clamping non-positive
// values to a minimum positive rate.
func (c *Clock) WithFrequency(hz float64) *Clock {
	if hz <= 0 {
		hz = 1e-9
	}
	c.halfPeriod = time.Duration(float64(time.Second) / 2.0 / hz)
	return c
}

// HalfPeriod returns the configured half-period, for snapshotting.
func (c *Clock) HalfPeriod() time.Duration { return c.halfPeriod }

// Accum returns the accumulated sub-half-period time, for snapshotting.
func (c *Clock) Accum() time.Duration { return c.accum }

// Active reports the current phase, for snapshotting.
func (c *Clock) Active() bool { return c.active }

// Restore sets the clock's internal timing state, for board.Restore.
func (c *Clock) Restore(halfPeriod, accum time.Duration, active bool) {
	c.halfPeriod = halfPeriod
	c.accum = accum
	c.active = active
}

// AddListener registers fn to be called once per powered Tick with the
// current CLK level (whether or not it changed), and returns an id usable
// with RemoveListener.
func (c *Clock) AddListener(fn func(Event)) chip.ListenerID { return c.listeners.Add(fn) }

// RemoveListener unregisters a previously added listener.
func (c *Clock) RemoveListener(id chip.ListenerID) { c.listeners.Remove(id) }

func (c *Clock) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: CLK, Pin: &c.clk},
		{ID: GND, Pin: &c.gnd},
		{ID: VCC, Pin: &c.vcc},
	}
}

func (c *Clock) Pin(id chip.PinID) *pin.Pin {
	switch id {
	case CLK:
		return &c.clk
	case GND:
		return &c.gnd
	case VCC:
		return &c.vcc
	default:
		return nil
	}
}

// Tick advances the oscillator: while powered, accumulate dt and flip phase for
// every half-period exceeded; while unpowered, reset phase and
// accumulator.
func (c *Clock) Tick(dt time.Duration) {
	if c.vcc.Value.AsLogic(1.0) != logic.High {
		c.active = false
		c.accum = 0
		return
	}
	c.accum += dt
	for c.accum > c.halfPeriod {
		c.accum -= c.halfPeriod
		c.active = !c.active
	}
	c.clk.Value = logic.FromBool(c.active)
	c.listeners.Fire(Event{State: c.clk.Value})
}
