package gate

import (
	"testing"
	"time"

	"github.com/jmchacon/icboard/board"
	"github.com/jmchacon/icboard/generator"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/trace"
)

func TestAndGateTruthTable(t *testing.T) {
	g := NewAndGate()
	g.vcc.Value = logic.High

	tests := []struct {
		a, b logic.Value
		want logic.Value
	}{
		{logic.Low, logic.Low, logic.Low},
		{logic.Low, logic.High, logic.Low},
		{logic.High, logic.Low, logic.Low},
		{logic.High, logic.High, logic.High},
	}
	for _, tc := range tests {
		g.a.Value = tc.a
		g.b.Value = tc.b
		g.Tick(time.Millisecond)
		if g.ab.Value != tc.want {
			t.Errorf("AND(%v, %v) = %v, want %v", tc.a, tc.b, g.ab.Value, tc.want)
		}
	}
}

func TestNandGateTruthTable(t *testing.T) {
	g := NewNandGate()
	g.vcc.Value = logic.High
	g.a.Value, g.b.Value = logic.High, logic.High
	g.Tick(time.Millisecond)
	if g.ab.Value != logic.Low {
		t.Errorf("NAND(1,1) = %v, want Low", g.ab.Value)
	}
	g.a.Value, g.b.Value = logic.Low, logic.Low
	g.Tick(time.Millisecond)
	if g.ab.Value != logic.High {
		t.Errorf("NAND(0,0) = %v, want High", g.ab.Value)
	}
}

func TestOrAndNorGates(t *testing.T) {
	or := NewOrGate()
	or.vcc.Value = logic.High
	or.a.Value, or.b.Value = logic.Low, logic.High
	or.Tick(time.Millisecond)
	if or.ab.Value != logic.High {
		t.Errorf("OR(0,1) = %v, want High", or.ab.Value)
	}

	nor := NewNorGate()
	nor.vcc.Value = logic.High
	nor.a.Value, nor.b.Value = logic.Low, logic.Low
	nor.Tick(time.Millisecond)
	if nor.ab.Value != logic.High {
		t.Errorf("NOR(0,0) = %v, want High", nor.ab.Value)
	}
}

// Unpowered chips never drive an output: no defined behavior without VCC.
func TestGateUnpoweredDoesNothing(t *testing.T) {
	g := NewAndGate()
	g.a.Value, g.b.Value = logic.High, logic.High
	g.Tick(time.Millisecond)
	if g.ab.Value != logic.Undefined {
		t.Errorf("unpowered AND output = %v, want Undefined", g.ab.Value)
	}
	if g.gnd.Value != logic.Undefined {
		t.Errorf("unpowered chip should not ground, got %v", g.gnd.Value)
	}
}

func TestQuadGateAllFourIndependent(t *testing.T) {
	g := NewAndGate()
	g.vcc.Value = logic.High
	g.a.Value, g.b.Value = logic.High, logic.High
	g.c.Value, g.d.Value = logic.Low, logic.High
	g.e.Value, g.f.Value = logic.High, logic.Low
	g.g.Value, g.h.Value = logic.Low, logic.Low
	g.Tick(time.Millisecond)

	if g.ab.Value != logic.High || g.cd.Value != logic.Low || g.ef.Value != logic.Low || g.gh.Value != logic.Low {
		t.Errorf("quad outputs = %v %v %v %v, want High Low Low Low", g.ab.Value, g.cd.Value, g.ef.Value, g.gh.Value)
	}
}

func TestNotGateHexInverter(t *testing.T) {
	n := NewNotGate()
	n.vcc.Value = logic.High
	n.a.Value = logic.High
	n.b.Value = logic.Low
	n.Tick(time.Millisecond)
	if n.notA.Value != logic.Low {
		t.Errorf("NOT(1) = %v, want Low", n.notA.Value)
	}
	if n.notB.Value != logic.High {
		t.Errorf("NOT(0) = %v, want High", n.notB.Value)
	}
}

func TestThreeInputAndGate(t *testing.T) {
	g := NewThreeInputAndGate()
	g.vcc.Value = logic.High
	g.a.Value, g.b.Value, g.c.Value = logic.High, logic.High, logic.High
	g.Tick(time.Millisecond)
	if g.abc.Value != logic.High {
		t.Errorf("AND3(1,1,1) = %v, want High", g.abc.Value)
	}
	g.c.Value = logic.Low
	g.Tick(time.Millisecond)
	if g.abc.Value != logic.Low {
		t.Errorf("AND3(1,1,0) = %v, want Low", g.abc.Value)
	}
}

func TestThreeInputNorGate(t *testing.T) {
	g := NewThreeInputNorGate()
	g.vcc.Value = logic.High
	g.a.Value, g.b.Value, g.c.Value = logic.Low, logic.Low, logic.Low
	g.Tick(time.Millisecond)
	if g.abc.Value != logic.High {
		t.Errorf("NOR3(0,0,0) = %v, want High", g.abc.Value)
	}
	if g.ghi.Value != logic.High {
		t.Errorf("NOR3 ghi cell = %v, want High", g.ghi.Value)
	}
}

// S1: a board with one AndGate, a High generator feeding VCC/A/B, and a
// Low generator feeding GND. After one tick, AB reads High.
func TestScenarioS1AndGateOnBoard(t *testing.T) {
	b := board.New()
	and := NewAndGate()
	andID := b.RegisterChip(and)
	hiID := b.RegisterChip(generator.New())
	loID := b.RegisterChip(generator.New().WithState(logic.Low))

	b.Connect(hiID, generator.OUT, andID, VCC)
	b.Connect(hiID, generator.OUT, andID, A)
	b.Connect(hiID, generator.OUT, andID, B)
	b.Connect(loID, generator.OUT, andID, GND)

	b.Run(time.Millisecond)

	if and.ab.Value != logic.High {
		t.Errorf("AB after tick = %v, want High", and.ab.Value)
	}
}

// S6: two generators, one High and one Low, drive the same trace into a
// chip's Input pin. Bus resolution is not a contention detector: High
// dominates, so the Input pin reads High after one tick.
func TestScenarioS6BusContentionResolvesHigh(t *testing.T) {
	b := board.New()
	and := NewAndGate()
	andID := b.RegisterChip(and)
	hiID := b.RegisterChip(generator.New())
	loID := b.RegisterChip(generator.New().WithState(logic.Low))

	contended := trace.New[board.ChipID]()
	contended.Connect(hiID, generator.OUT)
	contended.Connect(loID, generator.OUT)
	contended.Connect(andID, A)
	b.RegisterTrace(contended)

	b.Run(time.Millisecond)

	if and.a.Value != logic.High {
		t.Errorf("A after contended tick = %v, want High", and.a.Value)
	}
}
