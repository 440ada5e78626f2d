package genotype

import "fmt"

// Receptor is a sensed condition a response can hang off.
type Receptor uint8

const (
	// Thought is sensed on every tick.
	Thought Receptor = iota
	// Feet is sensed while the body reports ground contact.
	Feet

	receptorCount
)

var receptorNames = [receptorCount]string{
	Thought: "thought",
	Feet:    "feet",
}

// AllReceptors lists every receptor in declaration order.
func AllReceptors() []Receptor {
	out := make([]Receptor, 0, receptorCount)
	for r := Receptor(0); r < receptorCount; r++ {
		out = append(out, r)
	}
	return out
}

// Valid reports whether r is a declared receptor.
func (r Receptor) Valid() bool {
	return r < receptorCount
}

func (r Receptor) String() string {
	if !r.Valid() {
		return fmt.Sprintf("receptor(%d)", uint8(r))
	}
	return receptorNames[r]
}

// Sensed reports whether the receptor fires given the current ground contact.
func (r Receptor) Sensed(grounded bool) bool {
	switch r {
	case Thought:
		return true
	case Feet:
		return grounded
	default:
		return false
	}
}

// ReceptorSet is a membership bitmask. Copying the value copies the set.
type ReceptorSet uint64

// NewReceptorSet builds a set holding the given receptors.
func NewReceptorSet(receptors ...Receptor) ReceptorSet {
	var s ReceptorSet
	for _, r := range receptors {
		s = s.With(r)
	}
	return s
}

// Has reports membership.
func (s ReceptorSet) Has(r Receptor) bool {
	return s&(1<<r) != 0
}

// With returns the set with r added.
func (s ReceptorSet) With(r Receptor) ReceptorSet {
	return s | 1<<r
}

// Without returns the set with r removed.
func (s ReceptorSet) Without(r Receptor) ReceptorSet {
	return s &^ (1 << r)
}

// Toggle adds r when absent and removes it when present.
func (s ReceptorSet) Toggle(r Receptor) ReceptorSet {
	return s ^ 1<<r
}

// Len counts the present receptors.
func (s ReceptorSet) Len() int {
	n := 0
	for r := Receptor(0); r < receptorCount; r++ {
		if s.Has(r) {
			n++
		}
	}
	return n
}

func (s ReceptorSet) Empty() bool {
	return s == 0
}

// Members returns the present receptors in declaration order.
func (s ReceptorSet) Members() []Receptor {
	out := make([]Receptor, 0, receptorCount)
	for r := Receptor(0); r < receptorCount; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
