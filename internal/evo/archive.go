package evo

import (
	"errors"
	"fmt"
	"sort"

	"boxyjump/internal/genotype"
	"boxyjump/internal/rng"
)

var ErrGenerationMismatch = errors.New("genome generation does not match archive slot")

const (
	OperationBootstrap = "bootstrap"
	OperationMutate    = "mutate"
	OperationMate      = "mate"
)

// ScoredRecord is one completed life.
type ScoredRecord struct {
	Score  float64
	Genome genotype.Genome
}

// Lineage describes how a proposed genome was bred.
type Lineage struct {
	Generation        int
	Operation         string
	ParentGenerations []int
}

// Archive keeps every scored genome in generation order plus a score ranking.
// It is not safe for concurrent use.
type Archive struct {
	cfg     Config
	records []ScoredRecord
	// ranking holds record indices, score descending, ties in insertion order.
	ranking []int
}

func NewArchive(cfg Config) *Archive {
	return &Archive{cfg: cfg}
}

func (a *Archive) Len() int {
	return len(a.records)
}

// Record appends a scored genome. The genome must carry the generation the
// archive handed out for this slot.
func (a *Archive) Record(score float64, genome genotype.Genome) (ScoredRecord, error) {
	if genome.Generation != len(a.records) {
		return ScoredRecord{}, fmt.Errorf("%w: genome=%d slot=%d", ErrGenerationMismatch, genome.Generation, len(a.records))
	}
	rec := ScoredRecord{Score: score, Genome: genome.Clone()}
	idx := len(a.records)
	a.records = append(a.records, rec)

	// first position holding a strictly lower score keeps equal scores in
	// insertion order
	pos := sort.Search(len(a.ranking), func(i int) bool {
		return a.records[a.ranking[i]].Score < score
	})
	a.ranking = append(a.ranking, 0)
	copy(a.ranking[pos+1:], a.ranking[pos:])
	a.ranking[pos] = idx
	return cloneRecord(rec), nil
}

// TopScores returns up to n records, best first.
func (a *Archive) TopScores(n int) []ScoredRecord {
	n = min(max(n, 0), len(a.ranking))
	out := make([]ScoredRecord, 0, n)
	for _, idx := range a.ranking[:n] {
		out = append(out, cloneRecord(a.records[idx]))
	}
	return out
}

// Records returns every record in generation order.
func (a *Archive) Records() []ScoredRecord {
	out := make([]ScoredRecord, 0, len(a.records))
	for _, rec := range a.records {
		out = append(out, cloneRecord(rec))
	}
	return out
}

// Recent returns the last n records in generation order.
func (a *Archive) Recent(n int) []ScoredRecord {
	n = min(max(n, 0), len(a.records))
	out := make([]ScoredRecord, 0, n)
	for _, rec := range a.records[len(a.records)-n:] {
		out = append(out, cloneRecord(rec))
	}
	return out
}

func (a *Archive) Best() (ScoredRecord, bool) {
	if len(a.ranking) == 0 {
		return ScoredRecord{}, false
	}
	return cloneRecord(a.records[a.ranking[0]]), true
}

// ProposeNextGenome breeds the genome for the next free slot.
//
// The first genome is an empty one; the second is the first one again. From
// then on the champion is mated with the most recent generation that made
// significant progress, falling back to the latest generation. Every proposal
// is mutated once.
func (a *Archive) ProposeNextGenome(src rng.Source) (genotype.Genome, Lineage, error) {
	generation := len(a.records)
	lineage := Lineage{Generation: generation}

	var next genotype.Genome
	switch generation {
	case 0:
		next = genotype.New()
		lineage.Operation = OperationBootstrap
	case 1:
		next = a.records[0].Genome.Clone()
		lineage.Operation = OperationMutate
		lineage.ParentGenerations = []int{0}
	default:
		best := a.records[a.ranking[0]]
		partner := a.recentProgress()
		next = best.Genome.Mate(src, a.records[partner].Genome)
		lineage.Operation = OperationMate
		lineage.ParentGenerations = []int{best.Genome.Generation, partner}
	}

	if err := next.Mutate(src, a.cfg.MutationChance, a.cfg.MutationRate); err != nil {
		return genotype.Genome{}, Lineage{}, fmt.Errorf("mutate generation %d: %w", generation, err)
	}
	next.Generation = generation
	return next, lineage, nil
}

// recentProgress scans backwards for the latest record scoring strictly above
// the significant-progress threshold.
func (a *Archive) recentProgress() int {
	for i := len(a.records) - 1; i >= 0; i-- {
		if a.records[i].Score > a.cfg.SignificantProgressScore {
			return i
		}
	}
	return len(a.records) - 1
}

func cloneRecord(rec ScoredRecord) ScoredRecord {
	return ScoredRecord{Score: rec.Score, Genome: rec.Genome.Clone()}
}
