package pin

import (
	"testing"

	"github.com/jmchacon/icboard/logic"
)

func TestReadWriteRoundTrip(t *testing.T) {
	pins := make([]*Pin, 8)
	for i := range pins {
		pins[i] = New(Output)
	}
	if overflow := Write(pins, 0xA5); overflow {
		t.Fatal("unexpected overflow writing 0xA5 to 8 pins")
	}
	if got := Read(pins); got != 0xA5 {
		t.Errorf("Read() = %#x, want 0xA5", got)
	}
}

func TestWriteOverflow(t *testing.T) {
	pins := make([]*Pin, 4)
	for i := range pins {
		pins[i] = New(Output)
	}
	if overflow := Write(pins, 0x1F); !overflow {
		t.Error("expected overflow writing 0x1F to 4 pins")
	}
	if got := Read(pins); got != 0xF {
		t.Errorf("Read() = %#x, want 0xF (low nibble only)", got)
	}
}

func TestReadThreshold(t *testing.T) {
	pins := []*Pin{
		{Value: logic.Analog(5)},
		{Value: logic.Analog(1)},
		{Value: logic.High},
		{Value: logic.Low},
	}
	if got := ReadThreshold(pins, 3.3); got != 0b0101 {
		t.Errorf("ReadThreshold() = %#b, want 0b0101", got)
	}
}
