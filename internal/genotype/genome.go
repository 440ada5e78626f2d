// Package genotype holds the evolvable control policy: a receptor set plus the
// responses bound to receptors, and the mutation and crossover operators over
// it.
package genotype

import (
	"boxyjump/internal/model"
)

// Genome is an independent value. Use Clone before handing one to code that
// may mutate it.
type Genome struct {
	Generation int
	Receptors  ReceptorSet
	Responses  map[Receptor]Response
}

// New returns an empty genome.
func New() Genome {
	return Genome{Responses: make(map[Receptor]Response)}
}

// Clone deep-copies the genome.
func (g Genome) Clone() Genome {
	out := g
	out.Responses = make(map[Receptor]Response, len(g.Responses))
	for r, resp := range g.Responses {
		out.Responses[r] = resp
	}
	return out
}

// Response returns the response attached to r, present or not in Receptors.
func (g Genome) Response(r Receptor) (Response, bool) {
	resp, ok := g.Responses[r]
	return resp, ok
}

// Active lists receptors that are both present and carry a response, in
// declaration order.
func (g Genome) Active() []Receptor {
	out := make([]Receptor, 0, len(g.Responses))
	for _, r := range g.Receptors.Members() {
		if _, ok := g.Responses[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (g Genome) Snapshot() model.GenomeSnapshot {
	snap := model.GenomeSnapshot{Generation: g.Generation}
	for _, r := range g.Receptors.Members() {
		snap.Receptors = append(snap.Receptors, r.String())
	}
	for _, r := range AllReceptors() {
		resp, ok := g.Responses[r]
		if !ok {
			continue
		}
		snap.Responses = append(snap.Responses, model.ResponseSnapshot{
			Receptor:  r.String(),
			Kind:      resp.Kind.String(),
			Odds:      resp.Odds,
			Amount:    resp.Amount,
			Secondary: resp.Secondary,
			Active:    g.Receptors.Has(r),
		})
	}
	return snap
}

func (g *Genome) ensureResponses() {
	if g.Responses == nil {
		g.Responses = make(map[Receptor]Response)
	}
}
