package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/jmchacon/icboard/button"
	"github.com/jmchacon/icboard/clock"
	"github.com/jmchacon/icboard/gate"
	"github.com/jmchacon/icboard/generator"
	"github.com/jmchacon/icboard/memchip"
)

// newSnapshotFixture builds a small board touching most device kinds:
// a powered clock gating nothing in particular, a RAM with known contents,
// an AND gate, and a held-down button, all fed from one High rail.
func newSnapshotFixture() (*Board, *memchip.Ram256B) {
	b := New()
	ram := memchip.NewRam256B()
	and := gate.NewAndGate()
	btn := button.New()
	btn.Press()

	vccID := b.RegisterChip(generator.New())
	clkID := b.RegisterChip(clock.New().WithFrequency(100))
	ramID := b.RegisterChip(ram)
	andID := b.RegisterChip(and)
	btnID := b.RegisterChip(btn)

	b.Connect(vccID, generator.OUT, clkID, clock.VCC)
	b.Connect(vccID, generator.OUT, ramID, memchip.Ram256VCC)
	b.Connect(vccID, generator.OUT, andID, gate.VCC)
	b.Connect(vccID, generator.OUT, btnID, button.IN)
	b.Connect(clkID, clock.CLK, andID, gate.A)
	b.Connect(btnID, button.OUT, andID, gate.B)

	for i := 0; i < 5; i++ {
		b.Run(time.Millisecond)
	}
	return b, ram
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	b, ram := newSnapshotFixture()
	ramBytes := ram.Bytes()

	snap := b.Snapshot()

	// The snapshot must survive its serialized form.
	encoded, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored, err := Restore(decoded)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if diff := deep.Equal(restored.Snapshot(), snap); diff != nil {
		t.Errorf("restored board snapshots differently:\n%v\n%s", diff, spew.Sdump(decoded))
	}

	// RAM contents (randomized at power-on, so unique to this board) must
	// carry across.
	restoredRAM, ok := restored.GetChip(ChipID(3))
	if !ok {
		t.Fatal("restored board is missing chip id 3")
	}
	got := restoredRAM.(*memchip.Ram256B).Bytes()
	if diff := deep.Equal(got, ramBytes); diff != nil {
		t.Errorf("restored RAM differs: %v", diff)
	}
}

func TestSnapshotRestoreContinuesTicking(t *testing.T) {
	b, _ := newSnapshotFixture()
	restored, err := Restore(b.Snapshot())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	// Both boards advance identically from the common state.
	for i := 0; i < 7; i++ {
		b.Run(time.Millisecond)
		restored.Run(time.Millisecond)
	}
	if diff := deep.Equal(restored.Snapshot(), b.Snapshot()); diff != nil {
		t.Errorf("boards diverged after restore: %v", diff)
	}
}

func TestRestoreUnknownKindFails(t *testing.T) {
	snap := Snapshot{Chips: []chipSnapshot{{ID: 1, Kind: "flux_capacitor"}}}
	if _, err := Restore(snap); err == nil {
		t.Fatal("Restore of an unknown chip kind should fail")
	}
}

func TestRestoreRejectsMisorderedIDs(t *testing.T) {
	b, _ := newSnapshotFixture()
	snap := b.Snapshot()
	snap.Chips[0].ID = 99
	if _, err := Restore(snap); err == nil {
		t.Fatal("Restore should reject a snapshot whose ids don't match registration order")
	}
}
