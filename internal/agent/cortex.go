package agent

import (
	"fmt"

	"boxyjump/internal/genotype"
	"boxyjump/internal/rng"
)

// Firing records one response that fired on a tick.
type Firing struct {
	Receptor genotype.Receptor
	Kind     genotype.Kind
}

// Cortex drives a genome's responses tick by tick. It owns a private copy of
// the genome, so the policy it evaluates cannot change during a life.
type Cortex struct {
	genome genotype.Genome
	active []genotype.Receptor
}

func NewCortex(genome genotype.Genome) *Cortex {
	g := genome.Clone()
	return &Cortex{
		genome: g,
		active: g.Active(),
	}
}

// Genome returns a copy of the evaluated genome.
func (c *Cortex) Genome() genotype.Genome {
	return c.genome.Clone()
}

// ActivationProbability is the per-tick firing probability for a rate-based
// response. odds*dt only approximates a Poisson process for small dt; values
// are clamped to [0,1], which leaves the u < p outcome unchanged for u in [0,1).
func ActivationProbability(odds, deltaTime float64) float64 {
	p := odds * deltaTime
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Tick evaluates one frame. Every present receptor with a response consumes
// exactly one draw whether or not it ends up firing.
func (c *Cortex) Tick(src rng.Source, deltaTime float64, grounded bool, act genotype.Actuator) ([]Firing, error) {
	var fired []Firing
	for _, receptor := range c.active {
		resp := c.genome.Responses[receptor]
		if src.Float64() >= ActivationProbability(resp.Odds, deltaTime) {
			continue
		}
		if !receptor.Sensed(grounded) {
			continue
		}
		needsGround, err := resp.RequiresGround()
		if err != nil {
			return fired, fmt.Errorf("receptor %s: %w", receptor, err)
		}
		if needsGround && !grounded {
			continue
		}
		if err := resp.Fire(act); err != nil {
			return fired, fmt.Errorf("receptor %s: %w", receptor, err)
		}
		fired = append(fired, Firing{Receptor: receptor, Kind: resp.Kind})
	}
	return fired, nil
}
