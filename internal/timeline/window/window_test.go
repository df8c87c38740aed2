package window

import "testing"

func TestWindowGet_EffectiveValue(t *testing.T) {
	var w Window[string]
	w.Set(0, "a")
	w.Set(5, "b")
	w.Set(9, "c")

	tests := []struct {
		seek   int
		want   string
		wantOK bool
	}{
		{0, "a", true},
		{3, "a", true},
		{5, "b", true},
		{8, "b", true},
		{9, "c", true},
		{100, "c", true},
		{-1, "", false},
	}

	for _, tt := range tests {
		v, ok := w.Get(tt.seek)
		if ok != tt.wantOK || v != tt.want {
			t.Errorf("Get(%d) = %q, %v, want %q, %v", tt.seek, v, ok, tt.want, tt.wantOK)
		}
	}
}

func TestWindowSeek_NonMonotonic(t *testing.T) {
	var w Window[int]
	for i := 0; i < 10; i++ {
		w.Set(i*2, i)
	}

	// Forward, backward, forward again; results must be stable.
	order := []int{0, 18, 4, 4, 11, 3, 18, 0, 7}
	for _, i := range order {
		first, ok1 := w.Get(i)
		second, ok2 := w.Get(i)
		if first != second || ok1 != ok2 {
			t.Fatalf("Get(%d) unstable: %v,%v then %v,%v", i, first, ok1, second, ok2)
		}
	}
}

func TestWindowSet_Overwrite(t *testing.T) {
	var w Window[string]
	w.Set(3, "old")
	w.Set(3, "new")
	if w.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (set at same index overwrites)", w.Len())
	}
	if v, _ := w.Get(3); v != "new" {
		t.Errorf("Get(3) = %q, want %q", v, "new")
	}
}

func TestWindowSet_InsertBeforeCursor(t *testing.T) {
	var w Window[string]
	w.Set(10, "late")
	w.Seek(10)
	w.Set(2, "early")

	if v, _ := w.Get(5); v != "early" {
		t.Errorf("Get(5) = %q, want %q", v, "early")
	}
	if v, _ := w.Get(10); v != "late" {
		t.Errorf("Get(10) = %q, want %q", v, "late")
	}
}

func TestWindowTruncateAfter(t *testing.T) {
	var w Window[int]
	for i := 0; i < 6; i++ {
		w.Set(i, i)
	}
	if dropped := w.TruncateAfter(2); dropped != 3 {
		t.Fatalf("TruncateAfter(2) dropped %d, want 3", dropped)
	}
	if w.Len() != 3 {
		t.Errorf("Len = %d, want 3", w.Len())
	}
	if _, ok := w.Get(5); !ok {
		t.Error("Get(5) after truncate should carry the value at 2")
	}
	if v, _ := w.Get(5); v != 2 {
		t.Errorf("Get(5) = %d, want 2", v)
	}
}

func TestWindowHasExact(t *testing.T) {
	var w Window[string]
	w.Set(4, "x")
	if !w.HasExact(4) {
		t.Error("HasExact(4) = false, want true")
	}
	if w.HasExact(5) {
		t.Error("HasExact(5) = true, want false")
	}
}

func TestWindowBounds(t *testing.T) {
	var w Window[string]
	if _, ok := w.Beginning(); ok {
		t.Error("empty window has no beginning")
	}
	if _, ok := w.End(); ok {
		t.Error("empty window has no end")
	}

	w.Set(7, "mid")
	w.Set(2, "first")
	w.Set(11, "last")
	w.Seek(7) // split entries across both stacks

	if b, _ := w.Beginning(); b != 2 {
		t.Errorf("Beginning = %d, want 2", b)
	}
	if e, _ := w.End(); e != 11 {
		t.Errorf("End = %d, want 11", e)
	}
	if idx, v, _ := w.Last(); idx != 11 || v != "last" {
		t.Errorf("Last = %d,%q, want 11,last", idx, v)
	}
}

func TestWindowAll_OrderedRegardlessOfCursor(t *testing.T) {
	var w Window[int]
	for _, i := range []int{5, 1, 9, 3, 7} {
		w.Set(i, i)
	}
	w.Seek(4)

	var got []int
	for idx, v := range w.All() {
		if idx != v {
			t.Fatalf("index %d carries value %d", idx, v)
		}
		got = append(got, idx)
	}
	want := []int{1, 3, 5, 7, 9}
	if len(got) != len(want) {
		t.Fatalf("All yielded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("All yielded %v, want %v", got, want)
		}
	}

	var back []int
	for idx := range w.Backward() {
		back = append(back, idx)
	}
	for i := range want {
		if back[i] != want[len(want)-1-i] {
			t.Fatalf("Backward yielded %v, want reverse of %v", back, want)
		}
	}
}

func TestWindowGetIndexed(t *testing.T) {
	var w Window[string]
	w.Set(3, "x")
	idx, v, ok := w.GetIndexed(8)
	if !ok || idx != 3 || v != "x" {
		t.Errorf("GetIndexed(8) = %d,%q,%v, want 3,x,true", idx, v, ok)
	}
}
