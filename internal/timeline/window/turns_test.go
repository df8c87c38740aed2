package window

import "testing"

func TestTurnsGet_ForwardCarryAcrossTurns(t *testing.T) {
	var tr Turns[string]
	tr.Set(5, 0, "X")

	tests := []struct {
		turn, tick int
		want       string
		wantOK     bool
	}{
		{5, 0, "X", true},
		{5, 3, "X", true},
		{6, 0, "X", true},
		{100, 0, "X", true},
		{4, 9, "", false},
	}

	for _, tt := range tests {
		v, ok := tr.Get(tt.turn, tt.tick)
		if ok != tt.wantOK || v != tt.want {
			t.Errorf("Get(%d,%d) = %q,%v, want %q,%v", tt.turn, tt.tick, v, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTurnsGet_TickBeforeFirstWriteOfTurn(t *testing.T) {
	var tr Turns[string]
	tr.Set(3, 0, "early")
	tr.Set(3, 4, "late")
	tr.Set(7, 5, "turn7")

	// Turn 7 exists but its first write is at tick 5; ticks 0-4 of
	// turn 7 still see turn 3's final value.
	if v, ok := tr.Get(7, 2); !ok || v != "late" {
		t.Errorf("Get(7,2) = %q,%v, want late,true", v, ok)
	}
	if v, ok := tr.Get(7, 5); !ok || v != "turn7" {
		t.Errorf("Get(7,5) = %q,%v, want turn7,true", v, ok)
	}
	if v, ok := tr.Get(3, 2); !ok || v != "early" {
		t.Errorf("Get(3,2) = %q,%v, want early,true", v, ok)
	}
}

func TestTurnsSet_OverwriteSamePoint(t *testing.T) {
	var tr Turns[int]
	tr.Set(2, 1, 10)
	tr.Set(2, 1, 20)
	if tr.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tr.Len())
	}
	if v, _ := tr.Get(2, 1); v != 20 {
		t.Errorf("Get(2,1) = %d, want 20 (last write wins)", v)
	}
}

func TestTurnsHasExact(t *testing.T) {
	var tr Turns[int]
	tr.Set(4, 2, 1)
	if !tr.HasExact(4, 2) {
		t.Error("HasExact(4,2) = false, want true")
	}
	if tr.HasExact(4, 3) || tr.HasExact(5, 2) {
		t.Error("HasExact must be exact in both turn and tick")
	}
}

func TestTurnsTruncateAfter(t *testing.T) {
	var tr Turns[int]
	tr.Set(1, 0, 1)
	tr.Set(2, 0, 2)
	tr.Set(2, 3, 3)
	tr.Set(3, 0, 4)
	tr.Set(5, 1, 5)

	if dropped := tr.TruncateAfter(2, 0); dropped != 3 {
		t.Fatalf("TruncateAfter(2,0) dropped %d, want 3", dropped)
	}
	if v, _ := tr.Get(5, 9); v != 2 {
		t.Errorf("Get(5,9) = %d, want 2 (value at 2:0 carries forward)", v)
	}
	if tn, tk, _ := tr.End(); tn != 2 || tk != 0 {
		t.Errorf("End = %d:%d, want 2:0", tn, tk)
	}
}

func TestTurnsTruncateAfter_RemovesEmptiedTurn(t *testing.T) {
	var tr Turns[int]
	tr.Set(1, 0, 1)
	tr.Set(3, 5, 2)

	// Truncating at 3:2 empties turn 3's window entirely.
	if dropped := tr.TruncateAfter(3, 2); dropped != 1 {
		t.Fatalf("dropped %d, want 1", dropped)
	}
	if tn, tk, ok := tr.End(); !ok || tn != 1 || tk != 0 {
		t.Errorf("End = %d:%d,%v, want 1:0,true", tn, tk, ok)
	}
	if v, ok := tr.Get(3, 9); !ok || v != 1 {
		t.Errorf("Get(3,9) = %d,%v, want 1,true", v, ok)
	}
}

func TestTurnsBounds(t *testing.T) {
	var tr Turns[string]
	if _, _, ok := tr.End(); ok {
		t.Error("empty Turns has no end")
	}
	tr.Set(2, 3, "a")
	tr.Set(4, 0, "b")
	tr.Set(4, 6, "c")

	if tn, tk, _ := tr.Beginning(); tn != 2 || tk != 3 {
		t.Errorf("Beginning = %d:%d, want 2:3", tn, tk)
	}
	if tn, tk, _ := tr.End(); tn != 4 || tk != 6 {
		t.Errorf("End = %d:%d, want 4:6", tn, tk)
	}
}

func TestTurnsBetween(t *testing.T) {
	var tr Turns[int]
	tr.Set(1, 0, 10)
	tr.Set(1, 2, 11)
	tr.Set(2, 0, 20)
	tr.Set(3, 1, 30)
	tr.Set(3, 4, 31)
	tr.Set(4, 0, 40)

	collect := func(fromTurn, fromTick, toTurn, toTick int) []int {
		var out []int
		for v := range tr.Between(fromTurn, fromTick, toTurn, toTick) {
			out = append(out, v)
		}
		return out
	}

	// Exclusive of from, inclusive of to.
	got := collect(1, 0, 3, 1)
	want := []int{11, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("Between = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Between = %v, want %v", got, want)
		}
	}

	if out := collect(3, 4, 3, 4); len(out) != 0 {
		t.Errorf("empty range yielded %v", out)
	}

	// Restartable: same bounds, same result.
	again := collect(1, 0, 3, 1)
	if len(again) != len(want) {
		t.Errorf("second pass = %v, want %v", again, want)
	}
}

func TestTurnsBetweenDesc(t *testing.T) {
	var tr Turns[int]
	tr.Set(1, 0, 10)
	tr.Set(2, 0, 20)
	tr.Set(3, 1, 30)

	var out []int
	for v := range tr.BetweenDesc(3, 1, 1, 0) {
		out = append(out, v)
	}
	want := []int{30, 20}
	if len(out) != len(want) {
		t.Fatalf("BetweenDesc = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("BetweenDesc = %v, want %v", out, want)
		}
	}
}

func TestTurnsBetween_EarlyStop(t *testing.T) {
	var tr Turns[int]
	for turn := 0; turn < 5; turn++ {
		tr.Set(turn, 0, turn)
	}
	count := 0
	for range tr.Between(0, 0, 4, 0) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("early break consumed %d values, want 2", count)
	}
}
