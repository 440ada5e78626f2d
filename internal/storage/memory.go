package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"boxyjump/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.Run
	runOrder    []string
	lives       map[string][]model.LifeRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.Run)
	s.runOrder = nil
	s.lives = make(map[string][]model.LifeRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if _, ok := s.runs[run.ID]; !ok {
		s.runOrder = append(s.runOrder, run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Run, 0, len(s.runOrder))
	for _, id := range s.runOrder {
		out = append(out, s.runs[id])
	}
	return out, nil
}

func (s *MemoryStore) SaveLife(_ context.Context, life model.LifeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	lives := s.lives[life.RunID]
	life = cloneLife(life)
	for i := range lives {
		if lives[i].Generation == life.Generation {
			lives[i] = life
			return nil
		}
	}
	lives = append(lives, life)
	sort.SliceStable(lives, func(i, j int) bool {
		return lives[i].Generation < lives[j].Generation
	})
	s.lives[life.RunID] = lives
	return nil
}

func (s *MemoryStore) ListLives(_ context.Context, runID string) ([]model.LifeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneLives(s.lives[runID]), nil
}

func (s *MemoryStore) TopLives(_ context.Context, runID string, n int) ([]model.LifeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranked := cloneLives(s.lives[runID])
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	n = min(max(n, 0), len(ranked))
	return ranked[:n], nil
}

func cloneLives(lives []model.LifeRecord) []model.LifeRecord {
	out := make([]model.LifeRecord, 0, len(lives))
	for _, life := range lives {
		out = append(out, cloneLife(life))
	}
	return out
}

func cloneLife(life model.LifeRecord) model.LifeRecord {
	life.ParentGenerations = append([]int(nil), life.ParentGenerations...)
	life.Genome.Receptors = append([]string(nil), life.Genome.Receptors...)
	life.Genome.Responses = append([]model.ResponseSnapshot(nil), life.Genome.Responses...)
	return life
}
