package memchip

import (
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

// romCore is the shared state machine for both ROM sizes: CS/OE gated
// reads from a preloaded, never-written byte array.
type romCore struct {
	mem     []uint8
	powered bool
	readLis chip.Listeners[ReadEvent]

	vcc, gnd, cs, oe pin.Pin
	addr             []*pin.Pin
	io               []*pin.Pin
}

func newROMCore(size int, addr, io []*pin.Pin) *romCore {
	return &romCore{
		mem:  make([]uint8, size),
		vcc:  pin.Pin{Direction: pin.Input},
		gnd:  pin.Pin{Direction: pin.Output},
		cs:   pin.Pin{Direction: pin.Input},
		oe:   pin.Pin{Direction: pin.Input},
		addr: addr,
		io:   io,
	}
}

// loadData truncates or zero-pads data to the ROM's capacity.
func (r *romCore) loadData(data []byte) {
	n := copy(r.mem, data)
	for i := n; i < len(r.mem); i++ {
		r.mem[i] = 0
	}
}

func (r *romCore) setIODirection(d pin.Direction) {
	for _, p := range r.io {
		p.Direction = d
	}
}

func (r *romCore) tick(time.Duration) {
	if r.vcc.Value.AsLogic(1.0) != logic.High {
		if r.powered {
			r.setIODirection(pin.Floating)
			r.powered = false
		}
		return
	}
	r.powered = true
	r.gnd.Value = logic.Low

	if r.cs.Value.AsLogic(threshold) == logic.Low && r.oe.Value.AsLogic(threshold) == logic.Low {
		r.setIODirection(pin.Output)
		addr := pin.ReadThreshold(r.addr, threshold)
		pin.Write(r.io, uint(r.mem[addr]))
		r.readLis.Fire(ReadEvent{Addr: uint16(addr), Byte: r.mem[addr]})
	} else {
		r.setIODirection(pin.Floating)
	}
}

func (r *romCore) Peek(addr uint16) uint8 { return r.mem[int(addr)&(len(r.mem)-1)] }

// Bytes returns a copy of the backing array, for snapshotting.
func (r *romCore) Bytes() []uint8 {
	out := make([]uint8, len(r.mem))
	copy(out, r.mem)
	return out
}

// SetBytes overwrites the backing array from a snapshot.
func (r *romCore) SetBytes(data []uint8) { copy(r.mem, data) }

// Powered reports whether VCC read High on the chip's most recent tick,
// for snapshotting.
func (r *romCore) Powered() bool { return r.powered }

// SetPowered restores the powered flag from a snapshot.
func (r *romCore) SetPowered(p bool) { r.powered = p }

// Rom256B pin ids (identical layout to Ram256B minus WE).
const (
	Rom256CS  chip.PinID = 1
	Rom256OE  chip.PinID = 3
	Rom256A0  chip.PinID = 4
	Rom256A1  chip.PinID = 5
	Rom256A2  chip.PinID = 6
	Rom256A3  chip.PinID = 7
	Rom256A4  chip.PinID = 8
	Rom256A5  chip.PinID = 9
	Rom256A6  chip.PinID = 10
	Rom256GND chip.PinID = 11
	Rom256A7  chip.PinID = 12
	Rom256IO0 chip.PinID = 13
	Rom256IO1 chip.PinID = 14
	Rom256IO2 chip.PinID = 15
	Rom256IO3 chip.PinID = 16
	Rom256IO4 chip.PinID = 17
	Rom256IO5 chip.PinID = 18
	Rom256IO6 chip.PinID = 19
	Rom256IO7 chip.PinID = 20
	Rom256VCC chip.PinID = 22
)

// Rom256B is a 256-byte ROM chip with an 8-bit address bus.
type Rom256B struct {
	*romCore
	a0, a1, a2, a3, a4, a5, a6, a7         pin.Pin
	io0, io1, io2, io3, io4, io5, io6, io7 pin.Pin
}

// NewRom256B returns a zero-filled 256-byte ROM chip. Use WithData to
// preload it.
func NewRom256B() *Rom256B {
	r := &Rom256B{}
	addr := []*pin.Pin{&r.a0, &r.a1, &r.a2, &r.a3, &r.a4, &r.a5, &r.a6, &r.a7}
	io := []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3, &r.io4, &r.io5, &r.io6, &r.io7}
	for _, p := range addr {
		*p = pin.Pin{Direction: pin.Input}
	}
	for _, p := range io {
		*p = pin.Pin{Direction: pin.Floating}
	}
	r.romCore = newROMCore(256, addr, io)
	return r
}

// WithData loads data into the ROM, truncating or zero-padding to its
// 256-byte capacity, and returns the receiver for chaining.
func (r *Rom256B) WithData(data []byte) *Rom256B {
	r.loadData(data)
	return r
}

func (r *Rom256B) AddReadListener(fn func(ReadEvent)) chip.ListenerID { return r.readLis.Add(fn) }
func (r *Rom256B) Peek(addr uint16) uint8                             { return r.romCore.Peek(addr) }

func (r *Rom256B) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: Rom256CS, Pin: &r.cs}, {ID: Rom256OE, Pin: &r.oe},
		{ID: Rom256A0, Pin: &r.a0}, {ID: Rom256A1, Pin: &r.a1}, {ID: Rom256A2, Pin: &r.a2}, {ID: Rom256A3, Pin: &r.a3},
		{ID: Rom256A4, Pin: &r.a4}, {ID: Rom256A5, Pin: &r.a5}, {ID: Rom256A6, Pin: &r.a6}, {ID: Rom256GND, Pin: &r.gnd},
		{ID: Rom256A7, Pin: &r.a7},
		{ID: Rom256IO0, Pin: &r.io0}, {ID: Rom256IO1, Pin: &r.io1}, {ID: Rom256IO2, Pin: &r.io2}, {ID: Rom256IO3, Pin: &r.io3},
		{ID: Rom256IO4, Pin: &r.io4}, {ID: Rom256IO5, Pin: &r.io5}, {ID: Rom256IO6, Pin: &r.io6}, {ID: Rom256IO7, Pin: &r.io7},
		{ID: Rom256VCC, Pin: &r.vcc},
	}
}

func (r *Rom256B) Pin(id chip.PinID) *pin.Pin {
	for _, e := range r.ListPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (r *Rom256B) Tick(dt time.Duration) { r.romCore.tick(dt) }

// Rom8KB pin ids (identical layout to Ram8KB minus WE).
const (
	Rom8KCS  chip.PinID = 1
	Rom8KOE  chip.PinID = 3
	Rom8KA0  chip.PinID = 4
	Rom8KA1  chip.PinID = 5
	Rom8KA2  chip.PinID = 6
	Rom8KA3  chip.PinID = 7
	Rom8KA4  chip.PinID = 8
	Rom8KA5  chip.PinID = 9
	Rom8KA6  chip.PinID = 10
	Rom8KA7  chip.PinID = 11
	Rom8KA8  chip.PinID = 12
	Rom8KGND chip.PinID = 13
	Rom8KA9  chip.PinID = 14
	Rom8KA10 chip.PinID = 15
	Rom8KA11 chip.PinID = 16
	Rom8KA12 chip.PinID = 17
	Rom8KIO0 chip.PinID = 18
	Rom8KIO1 chip.PinID = 19
	Rom8KIO2 chip.PinID = 20
	Rom8KIO3 chip.PinID = 21
	Rom8KIO4 chip.PinID = 22
	Rom8KIO5 chip.PinID = 23
	Rom8KIO6 chip.PinID = 24
	Rom8KIO7 chip.PinID = 25
	Rom8KVCC chip.PinID = 26
)

// Rom8KB is an 8 KiB ROM chip with a 13-bit address bus.
type Rom8KB struct {
	*romCore
	a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12 pin.Pin
	io0, io1, io2, io3, io4, io5, io6, io7                pin.Pin
}

// NewRom8KB returns a zero-filled 8 KiB ROM chip. Use WithData to preload
// it.
func NewRom8KB() *Rom8KB {
	r := &Rom8KB{}
	addr := []*pin.Pin{&r.a0, &r.a1, &r.a2, &r.a3, &r.a4, &r.a5, &r.a6, &r.a7, &r.a8, &r.a9, &r.a10, &r.a11, &r.a12}
	io := []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3, &r.io4, &r.io5, &r.io6, &r.io7}
	for _, p := range addr {
		*p = pin.Pin{Direction: pin.Input}
	}
	for _, p := range io {
		*p = pin.Pin{Direction: pin.Floating}
	}
	r.romCore = newROMCore(8192, addr, io)
	return r
}

// WithData loads data into the ROM, truncating or zero-padding to its 8
// KiB capacity, and returns the receiver for chaining.
func (r *Rom8KB) WithData(data []byte) *Rom8KB {
	r.loadData(data)
	return r
}

func (r *Rom8KB) AddReadListener(fn func(ReadEvent)) chip.ListenerID { return r.readLis.Add(fn) }
func (r *Rom8KB) Peek(addr uint16) uint8                             { return r.romCore.Peek(addr) }

func (r *Rom8KB) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: Rom8KCS, Pin: &r.cs}, {ID: Rom8KOE, Pin: &r.oe},
		{ID: Rom8KA0, Pin: &r.a0}, {ID: Rom8KA1, Pin: &r.a1}, {ID: Rom8KA2, Pin: &r.a2}, {ID: Rom8KA3, Pin: &r.a3},
		{ID: Rom8KA4, Pin: &r.a4}, {ID: Rom8KA5, Pin: &r.a5}, {ID: Rom8KA6, Pin: &r.a6}, {ID: Rom8KA7, Pin: &r.a7},
		{ID: Rom8KA8, Pin: &r.a8}, {ID: Rom8KGND, Pin: &r.gnd}, {ID: Rom8KA9, Pin: &r.a9}, {ID: Rom8KA10, Pin: &r.a10},
		{ID: Rom8KA11, Pin: &r.a11}, {ID: Rom8KA12, Pin: &r.a12},
		{ID: Rom8KIO0, Pin: &r.io0}, {ID: Rom8KIO1, Pin: &r.io1}, {ID: Rom8KIO2, Pin: &r.io2}, {ID: Rom8KIO3, Pin: &r.io3},
		{ID: Rom8KIO4, Pin: &r.io4}, {ID: Rom8KIO5, Pin: &r.io5}, {ID: Rom8KIO6, Pin: &r.io6}, {ID: Rom8KIO7, Pin: &r.io7},
		{ID: Rom8KVCC, Pin: &r.vcc},
	}
}

func (r *Rom8KB) Pin(id chip.PinID) *pin.Pin {
	for _, e := range r.ListPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (r *Rom8KB) Tick(dt time.Duration) { r.romCore.tick(dt) }
