package rng

import "testing"

func TestIntnStaysInRange(t *testing.T) {
	seq := NewSequence(0, 0.49, 0.5, 0.999999, 1)
	want := []int{0, 0, 1, 1, 1}
	for i, w := range want {
		if got := Intn(seq, 2); got != w {
			t.Fatalf("draw %d: got %d want %d", i, got, w)
		}
	}
}

func TestSequenceWrapsAndCounts(t *testing.T) {
	seq := NewSequence(0.1, 0.2)
	got := []float64{seq.Float64(), seq.Float64(), seq.Float64()}
	if got[0] != 0.1 || got[1] != 0.2 || got[2] != 0.1 {
		t.Fatalf("unexpected replay: %v", got)
	}
	if seq.Drawn() != 3 {
		t.Fatalf("expected 3 draws, got %d", seq.Drawn())
	}
}

func TestRangeMapsDraw(t *testing.T) {
	if got := Range(NewSequence(0.5), 4, 6); got != 5 {
		t.Fatalf("expected midpoint 5, got %f", got)
	}
}

func TestRecorderKeepsValues(t *testing.T) {
	rec := &Recorder{Source: New(7)}
	for i := 0; i < 4; i++ {
		_ = rec.Float64()
	}
	replay := NewSequence(rec.Values...)
	again := New(7)
	for i := 0; i < 4; i++ {
		if replay.Float64() != again.Float64() {
			t.Fatalf("recorded draw %d differs from seeded replay", i)
		}
	}
}
