package models

import "testing"

func TestRankDomain_Parse(t *testing.T) {
	d := DefaultRankDomain()

	tests := []struct {
		cell string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"10", 10, true},
		{"0", 0, false},
		{"11", 0, false},
		{"03", 0, false},
		{" 3", 0, false},
		{"+3", 0, false},
		{"", 0, false},
		{"x", 0, false},
	}

	for _, tt := range tests {
		got, ok := d.Parse(tt.cell)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q) = (%d, %v), want (%d, %v)", tt.cell, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRankDomain_Weights(t *testing.T) {
	d := DefaultRankDomain()
	w := d.Weights()

	if len(w) != 10 {
		t.Fatalf("len(Weights) = %d, want 10", len(w))
	}

	if w[0] != 8 {
		t.Errorf("weight(1) = %v, want 8", w[0])
	}

	if w[9] != -1 {
		t.Errorf("weight(10) = %v, want -1", w[9])
	}

	if d.Divisor() != 10 {
		t.Errorf("Divisor = %v, want 10", d.Divisor())
	}
}

func TestRankDomain_Size(t *testing.T) {
	if got := (RankDomain{Min: 3, Max: 2}).Size(); got != 0 {
		t.Errorf("Size of inverted domain = %d, want 0", got)
	}

	if got := (RankDomain{Min: 1, Max: 2}).Size(); got != 2 {
		t.Errorf("Size = %d, want 2", got)
	}
}

func TestRankTable_ZeroInitialised(t *testing.T) {
	d := RankDomain{Min: 1, Max: 3}
	tbl := NewRankTable(d, []Product{{ID: "a"}, {ID: "b"}})

	for p := range tbl.Products {
		keys := tbl.CountsByKey(p)
		if len(keys) != 3 {
			t.Errorf("product %d has %d rank slots, want 3", p, len(keys))
		}

		for k, v := range keys {
			if v != 0 {
				t.Errorf("product %d rank %s = %d, want 0", p, k, v)
			}
		}
	}

	tbl.Increment(1, 3)
	tbl.Increment(1, 3)

	if got := tbl.Count(1, 3); got != 2 {
		t.Errorf("Count(1, 3) = %d, want 2", got)
	}

	if got := tbl.Total(1); got != 2 {
		t.Errorf("Total(1) = %d, want 2", got)
	}

	if idx, ok := tbl.Lookup("b"); !ok || idx != 1 {
		t.Errorf("Lookup(b) = (%d, %v), want (1, true)", idx, ok)
	}
}
