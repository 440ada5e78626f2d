package genotype

import (
	"boxyjump/internal/rng"
)

// alterOdds is the share of response mutations that gain or alter a response
// rather than remove one.
const alterOdds = 0.666

// Mutate perturbs the genome in place. The draw order is fixed so a seeded
// source reproduces the same result.
func (g *Genome) Mutate(src rng.Source, mutationChance, mutationRate float64) error {
	g.ensureResponses()
	g.mutateReceptors(src, mutationChance)
	return g.mutateResponses(src, mutationChance, mutationRate)
}

func (g *Genome) mutateReceptors(src rng.Source, chance float64) {
	if !g.Receptors.Empty() && src.Float64() >= chance {
		return
	}
	all := AllReceptors()
	g.Receptors = g.Receptors.Toggle(all[rng.Intn(src, len(all))])
}

func (g *Genome) mutateResponses(src rng.Source, chance, rate float64) error {
	hasResponses := len(g.Responses) > 0
	if hasResponses && src.Float64() >= chance {
		return nil
	}

	present := g.Receptors.Members()
	if len(present) == 0 {
		return nil
	}
	target := present[rng.Intn(src, len(present))]

	if hasResponses && src.Float64() >= alterOdds {
		delete(g.Responses, target)
		return nil
	}

	existing, ok := g.Responses[target]
	if !ok {
		g.Responses[target] = RandomResponse(src)
		return nil
	}
	mutated, err := existing.perturb(src, rate)
	if err != nil {
		return err
	}
	g.Responses[target] = mutated
	return nil
}
