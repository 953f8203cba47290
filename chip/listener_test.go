package chip

import "testing"

func TestListenersAddFireRemove(t *testing.T) {
	var l Listeners[int]
	var got []int
	id := l.Add(func(e int) { got = append(got, e) })

	l.Fire(1)
	l.Fire(2)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("events = %v, want [1 2]", got)
	}

	l.Remove(id)
	l.Fire(3)
	if len(got) != 2 {
		t.Errorf("listener still fired after Remove: %v", got)
	}
}

func TestListenersRemoveUnknownIDIsNoOp(t *testing.T) {
	var l Listeners[string]
	l.Remove(42)
	l.Fire("ignored") // no listeners, must not panic
}
