package logic

import "testing"

func TestFeed(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"undefined plus low", Undefined, Low, Low},
		{"low plus undefined", Low, Undefined, Low},
		{"low plus low", Low, Low, Low},
		{"low plus high", Low, High, High},
		{"high plus anything", High, Analog(1), High},
		{"analog plus high", Analog(1), High, High},
		{"analog vs analog picks max", Analog(1), Analog(2), Analog(2)},
		{"analog vs analog picks max reversed", Analog(2), Analog(1), Analog(2)},
		{"analog plus undefined", Analog(5), Undefined, Analog(5)},
		{"analog plus low", Analog(5), Low, Analog(5)},
		{"low plus analog", Low, Analog(5), Analog(5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Feed(tc.a, tc.b)
			if got.k != tc.want.k || got.analog != tc.want.analog {
				t.Errorf("Feed(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestAsLogic(t *testing.T) {
	if got := Undefined.AsLogic(3.3); got != Low {
		t.Errorf("Undefined.AsLogic = %v, want Low", got)
	}
	if got := Analog(5).AsLogic(3.3); got != High {
		t.Errorf("Analog(5).AsLogic(3.3) = %v, want High", got)
	}
	if got := Analog(1).AsLogic(3.3); got != Low {
		t.Errorf("Analog(1).AsLogic(3.3) = %v, want Low", got)
	}
}

func TestBool(t *testing.T) {
	if High.Bool() != true {
		t.Error("High.Bool() should be true")
	}
	if Low.Bool() != false {
		t.Error("Low.Bool() should be false")
	}
	if Undefined.Bool() != false {
		t.Error("Undefined.Bool() should be false")
	}
	if Analog(0).Bool() != false {
		t.Error("Analog(0).Bool() should be false")
	}
	if Analog(1).Bool() != true {
		t.Error("Analog(1).Bool() should be true")
	}
}

func TestAsAnalog(t *testing.T) {
	if got := High.AsAnalog(5); got.Voltage() != 5 {
		t.Errorf("High.AsAnalog(5) = %v, want 5", got.Voltage())
	}
	if got := Low.AsAnalog(5); got.Voltage() != 0 {
		t.Errorf("Low.AsAnalog(5) = %v, want 0", got.Voltage())
	}
}
