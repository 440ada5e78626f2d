package genotype

import (
	"boxyjump/internal/rng"
)

// Mate crosses g with other. The child's generation is left for the caller
// to assign and no mutation is applied.
func (g Genome) Mate(src rng.Source, other Genome) Genome {
	child := New()

	for _, r := range AllReceptors() {
		p := 0.0
		if g.Receptors.Has(r) {
			p += 0.5
		}
		if other.Receptors.Has(r) {
			p += 0.5
		}
		switch {
		case p == 0:
		case p >= 1:
			child.Receptors = child.Receptors.With(r)
		case src.Float64() < p:
			child.Receptors = child.Receptors.With(r)
		}
	}

	for _, r := range AllReceptors() {
		mine, inSelf := g.Responses[r]
		theirs, inOther := other.Responses[r]
		switch {
		case inSelf && inOther:
			if src.Float64() < 0.5 {
				child.Responses[r] = mine
			} else {
				child.Responses[r] = theirs
			}
		case inSelf:
			child.Responses[r] = mine
		case inOther:
			child.Responses[r] = theirs
		}
	}
	return child
}
