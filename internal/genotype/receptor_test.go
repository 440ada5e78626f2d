package genotype

import "testing"

func TestReceptorSetMembership(t *testing.T) {
	s := NewReceptorSet(Feet)
	if s.Has(Thought) || !s.Has(Feet) || s.Len() != 1 {
		t.Fatalf("unexpected set: %v", s.Members())
	}
	s = s.Toggle(Thought).Toggle(Feet)
	if got := s.Members(); len(got) != 1 || got[0] != Thought {
		t.Fatalf("unexpected members after toggles: %v", got)
	}
	if !s.Without(Thought).Empty() {
		t.Fatal("expected empty set")
	}
}

func TestReceptorSensing(t *testing.T) {
	cases := []struct {
		receptor Receptor
		grounded bool
		want     bool
	}{
		{Thought, false, true},
		{Thought, true, true},
		{Feet, false, false},
		{Feet, true, true},
		{Receptor(9), true, false},
	}
	for _, tc := range cases {
		if got := tc.receptor.Sensed(tc.grounded); got != tc.want {
			t.Fatalf("%s grounded=%t: got %t want %t", tc.receptor, tc.grounded, got, tc.want)
		}
	}
}
