// Package memchip implements the bidirectional-data memory chips:
// RAM (randomized on power-on) and ROM (preloaded, never written), each in
// a 256-byte and 8 KiB variant sharing the same CS/WE/OE protocol.
package memchip

import (
	"math/rand"
	"time"

	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/pin"
)

const threshold = 3.3

// WriteEvent reports a store to a RAM chip.
type WriteEvent struct {
	Addr uint16
	Byte uint8
}

// ReadEvent reports a load from a memory chip (RAM or ROM).
type ReadEvent struct {
	Addr uint16
	Byte uint8
}

// ramCore is the shared state machine for both RAM sizes: only the address
// bus width and backing array size differ.
type ramCore struct {
	mem      []uint8
	powered  bool
	writeLis chip.Listeners[WriteEvent]
	readLis  chip.Listeners[ReadEvent]

	vcc, gnd, cs, we, oe pin.Pin
	addr                 []*pin.Pin
	io                   []*pin.Pin
}

func newRAMCore(size int, addr, io []*pin.Pin) *ramCore {
	return &ramCore{
		mem:  make([]uint8, size),
		vcc:  pin.Pin{Direction: pin.Input},
		gnd:  pin.Pin{Direction: pin.Output},
		cs:   pin.Pin{Direction: pin.Input},
		we:   pin.Pin{Direction: pin.Input},
		oe:   pin.Pin{Direction: pin.Input},
		addr: addr,
		io:   io,
	}
}

func (r *ramCore) setIODirection(d pin.Direction) {
	for _, p := range r.io {
		p.Direction = d
	}
}

func (r *ramCore) tick(time.Duration) {
	if r.vcc.Value.AsLogic(1.0) != logic.High {
		if r.powered {
			r.setIODirection(pin.Floating)
			r.powered = false
		}
		return
	}
	if !r.powered {
		for i := range r.mem {
			r.mem[i] = uint8(rand.Intn(256))
		}
		r.powered = true
	}
	r.gnd.Value = logic.Low

	if r.cs.Value.AsLogic(threshold) != logic.Low {
		r.setIODirection(pin.Floating)
		return
	}
	switch {
	case r.we.Value.AsLogic(threshold) == logic.Low:
		r.setIODirection(pin.Input)
		addr := pin.ReadThreshold(r.addr, threshold)
		b := uint8(pin.ReadThreshold(r.io, threshold))
		r.mem[addr] = b
		r.writeLis.Fire(WriteEvent{Addr: uint16(addr), Byte: b})
	case r.oe.Value.AsLogic(threshold) == logic.Low:
		r.setIODirection(pin.Output)
		addr := pin.ReadThreshold(r.addr, threshold)
		pin.Write(r.io, uint(r.mem[addr]))
		r.readLis.Fire(ReadEvent{Addr: uint16(addr), Byte: r.mem[addr]})
	default:
		r.setIODirection(pin.Floating)
	}
}

// Peek reads a byte directly, bypassing the pin protocol; useful for tests
// and for seeding/inspecting RAM from outside the simulated bus.
func (r *ramCore) Peek(addr uint16) uint8 { return r.mem[int(addr)&(len(r.mem)-1)] }

// Bytes returns a copy of the backing array, for snapshotting.
func (r *ramCore) Bytes() []uint8 {
	out := make([]uint8, len(r.mem))
	copy(out, r.mem)
	return out
}

// SetBytes overwrites the backing array from a snapshot. len(data) must
// equal the chip's capacity.
func (r *ramCore) SetBytes(data []uint8) { copy(r.mem, data) }

// Powered reports whether the chip has completed its power-on
// randomization, for snapshotting.
func (r *ramCore) Powered() bool { return r.powered }

// SetPowered restores the powered flag from a snapshot.
func (r *ramCore) SetPowered(p bool) { r.powered = p }

// Ram256B pin ids.
const (
	Ram256CS  chip.PinID = 1
	Ram256WE  chip.PinID = 2
	Ram256OE  chip.PinID = 3
	Ram256A0  chip.PinID = 4
	Ram256A1  chip.PinID = 5
	Ram256A2  chip.PinID = 6
	Ram256A3  chip.PinID = 7
	Ram256A4  chip.PinID = 8
	Ram256A5  chip.PinID = 9
	Ram256A6  chip.PinID = 10
	Ram256GND chip.PinID = 11
	Ram256A7  chip.PinID = 12
	Ram256IO0 chip.PinID = 13
	Ram256IO1 chip.PinID = 14
	Ram256IO2 chip.PinID = 15
	Ram256IO3 chip.PinID = 16
	Ram256IO4 chip.PinID = 17
	Ram256IO5 chip.PinID = 18
	Ram256IO6 chip.PinID = 19
	Ram256IO7 chip.PinID = 20
	Ram256VCC chip.PinID = 22
)

// Ram256B is a 256-byte RAM chip with an 8-bit address bus.
type Ram256B struct {
	*ramCore
	a0, a1, a2, a3, a4, a5, a6, a7         pin.Pin
	io0, io1, io2, io3, io4, io5, io6, io7 pin.Pin
}

// NewRam256B returns an unpowered 256-byte RAM chip.
func NewRam256B() *Ram256B {
	r := &Ram256B{}
	addr := []*pin.Pin{&r.a0, &r.a1, &r.a2, &r.a3, &r.a4, &r.a5, &r.a6, &r.a7}
	io := []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3, &r.io4, &r.io5, &r.io6, &r.io7}
	for _, p := range addr {
		*p = pin.Pin{Direction: pin.Input}
	}
	for _, p := range io {
		*p = pin.Pin{Direction: pin.Floating}
	}
	r.ramCore = newRAMCore(256, addr, io)
	return r
}

// AddWriteListener registers fn for every store; AddReadListener for every
// load.
func (r *Ram256B) AddWriteListener(fn func(WriteEvent)) chip.ListenerID { return r.writeLis.Add(fn) }
func (r *Ram256B) AddReadListener(fn func(ReadEvent)) chip.ListenerID   { return r.readLis.Add(fn) }

// Peek reads mem[addr] directly, outside the pin protocol.
func (r *Ram256B) Peek(addr uint16) uint8 { return r.ramCore.Peek(addr) }

func (r *Ram256B) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: Ram256CS, Pin: &r.cs}, {ID: Ram256WE, Pin: &r.we}, {ID: Ram256OE, Pin: &r.oe},
		{ID: Ram256A0, Pin: &r.a0}, {ID: Ram256A1, Pin: &r.a1}, {ID: Ram256A2, Pin: &r.a2}, {ID: Ram256A3, Pin: &r.a3},
		{ID: Ram256A4, Pin: &r.a4}, {ID: Ram256A5, Pin: &r.a5}, {ID: Ram256A6, Pin: &r.a6}, {ID: Ram256GND, Pin: &r.gnd},
		{ID: Ram256A7, Pin: &r.a7},
		{ID: Ram256IO0, Pin: &r.io0}, {ID: Ram256IO1, Pin: &r.io1}, {ID: Ram256IO2, Pin: &r.io2}, {ID: Ram256IO3, Pin: &r.io3},
		{ID: Ram256IO4, Pin: &r.io4}, {ID: Ram256IO5, Pin: &r.io5}, {ID: Ram256IO6, Pin: &r.io6}, {ID: Ram256IO7, Pin: &r.io7},
		{ID: Ram256VCC, Pin: &r.vcc},
	}
}

func (r *Ram256B) Pin(id chip.PinID) *pin.Pin {
	for _, e := range r.ListPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (r *Ram256B) Tick(dt time.Duration) { r.ramCore.tick(dt) }

// Ram8KB pin ids.
const (
	Ram8KCS  chip.PinID = 1
	Ram8KWE  chip.PinID = 2
	Ram8KOE  chip.PinID = 3
	Ram8KA0  chip.PinID = 4
	Ram8KA1  chip.PinID = 5
	Ram8KA2  chip.PinID = 6
	Ram8KA3  chip.PinID = 7
	Ram8KA4  chip.PinID = 8
	Ram8KA5  chip.PinID = 9
	Ram8KA6  chip.PinID = 10
	Ram8KA7  chip.PinID = 11
	Ram8KA8  chip.PinID = 12
	Ram8KGND chip.PinID = 13
	Ram8KA9  chip.PinID = 14
	Ram8KA10 chip.PinID = 15
	Ram8KA11 chip.PinID = 16
	Ram8KA12 chip.PinID = 17
	Ram8KIO0 chip.PinID = 18
	Ram8KIO1 chip.PinID = 19
	Ram8KIO2 chip.PinID = 20
	Ram8KIO3 chip.PinID = 21
	Ram8KIO4 chip.PinID = 22
	Ram8KIO5 chip.PinID = 23
	Ram8KIO6 chip.PinID = 24
	Ram8KIO7 chip.PinID = 25
	Ram8KVCC chip.PinID = 26
)

// Ram8KB is an 8 KiB RAM chip with a 13-bit address bus.
type Ram8KB struct {
	*ramCore
	a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12 pin.Pin
	io0, io1, io2, io3, io4, io5, io6, io7                pin.Pin
}

// NewRam8KB returns an unpowered 8 KiB RAM chip.
func NewRam8KB() *Ram8KB {
	r := &Ram8KB{}
	addr := []*pin.Pin{&r.a0, &r.a1, &r.a2, &r.a3, &r.a4, &r.a5, &r.a6, &r.a7, &r.a8, &r.a9, &r.a10, &r.a11, &r.a12}
	io := []*pin.Pin{&r.io0, &r.io1, &r.io2, &r.io3, &r.io4, &r.io5, &r.io6, &r.io7}
	for _, p := range addr {
		*p = pin.Pin{Direction: pin.Input}
	}
	for _, p := range io {
		*p = pin.Pin{Direction: pin.Floating}
	}
	r.ramCore = newRAMCore(8192, addr, io)
	return r
}

func (r *Ram8KB) AddWriteListener(fn func(WriteEvent)) chip.ListenerID { return r.writeLis.Add(fn) }
func (r *Ram8KB) AddReadListener(fn func(ReadEvent)) chip.ListenerID   { return r.readLis.Add(fn) }
func (r *Ram8KB) Peek(addr uint16) uint8                               { return r.ramCore.Peek(addr) }

func (r *Ram8KB) ListPins() []chip.PinEntry {
	return []chip.PinEntry{
		{ID: Ram8KCS, Pin: &r.cs}, {ID: Ram8KWE, Pin: &r.we}, {ID: Ram8KOE, Pin: &r.oe},
		{ID: Ram8KA0, Pin: &r.a0}, {ID: Ram8KA1, Pin: &r.a1}, {ID: Ram8KA2, Pin: &r.a2}, {ID: Ram8KA3, Pin: &r.a3},
		{ID: Ram8KA4, Pin: &r.a4}, {ID: Ram8KA5, Pin: &r.a5}, {ID: Ram8KA6, Pin: &r.a6}, {ID: Ram8KA7, Pin: &r.a7},
		{ID: Ram8KA8, Pin: &r.a8}, {ID: Ram8KGND, Pin: &r.gnd}, {ID: Ram8KA9, Pin: &r.a9}, {ID: Ram8KA10, Pin: &r.a10},
		{ID: Ram8KA11, Pin: &r.a11}, {ID: Ram8KA12, Pin: &r.a12},
		{ID: Ram8KIO0, Pin: &r.io0}, {ID: Ram8KIO1, Pin: &r.io1}, {ID: Ram8KIO2, Pin: &r.io2}, {ID: Ram8KIO3, Pin: &r.io3},
		{ID: Ram8KIO4, Pin: &r.io4}, {ID: Ram8KIO5, Pin: &r.io5}, {ID: Ram8KIO6, Pin: &r.io6}, {ID: Ram8KIO7, Pin: &r.io7},
		{ID: Ram8KVCC, Pin: &r.vcc},
	}
}

func (r *Ram8KB) Pin(id chip.PinID) *pin.Pin {
	for _, e := range r.ListPins() {
		if e.ID == id {
			return e.Pin
		}
	}
	return nil
}

func (r *Ram8KB) Tick(dt time.Duration) { r.ramCore.tick(dt) }
