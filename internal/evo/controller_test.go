package evo

import (
	"errors"
	"math"
	"testing"

	"boxyjump/internal/genotype"
	"boxyjump/internal/rng"
)

type recordingSpawner struct {
	ids     []AgentID
	genomes []genotype.Genome
	err     error
}

func (s *recordingSpawner) Spawn(id AgentID, genome genotype.Genome) error {
	if s.err != nil {
		return s.err
	}
	s.ids = append(s.ids, id)
	s.genomes = append(s.genomes, genome)
	return nil
}

type nopActuator struct{}

func (nopActuator) ApplyHorizontalForce(float64) {}

func (nopActuator) ApplyVelocity(float64, float64) {}

func newTestController(t *testing.T, spawner Spawner) *Controller {
	t.Helper()
	c, err := NewController(DefaultConfig(), rng.New(11), spawner)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestControllerLifecycle(t *testing.T) {
	spawner := &recordingSpawner{}
	c := newTestController(t, spawner)
	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
	if _, err := c.Tick(0.1, true, nopActuator{}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected not started, got %v", err)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.State() != StateSpawned || len(spawner.ids) != 1 {
		t.Fatalf("expected one spawned agent, state=%s spawns=%d", c.State(), len(spawner.ids))
	}
	if err := c.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected already started, got %v", err)
	}

	first, ok := c.Life()
	if !ok || first.Genome.Generation != 0 || first.Lineage.Operation != OperationBootstrap {
		t.Fatalf("unexpected first life: %+v ok=%t", first, ok)
	}

	for i := 0; i < 200; i++ {
		if _, err := c.Tick(0.1, i%2 == 0, nopActuator{}); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if c.State() != StateEvaluating {
		t.Fatalf("expected evaluating, got %s", c.State())
	}

	outcome, err := c.NotifyDeath(first.ID, 50)
	if err != nil {
		t.Fatalf("notify death: %v", err)
	}
	if math.Abs(outcome.Elapsed-20) > 1e-6 {
		t.Fatalf("expected ~20s elapsed, got %f", outcome.Elapsed)
	}
	if outcome.Record.Score != Score(50, outcome.Elapsed) || outcome.Record.Genome.Generation != 0 {
		t.Fatalf("unexpected record: %+v", outcome.Record)
	}
	if c.Archive().Len() != 1 {
		t.Fatalf("expected one archived record, got %d", c.Archive().Len())
	}

	second, ok := c.Life()
	if !ok || second.ID == first.ID || second.Genome.Generation != 1 || second.Elapsed != 0 {
		t.Fatalf("expected fresh second life, got %+v", second)
	}
	if c.State() != StateSpawned || len(spawner.ids) != 2 {
		t.Fatalf("expected next agent spawned immediately, state=%s spawns=%d", c.State(), len(spawner.ids))
	}
}

func TestControllerHaltsOnStaleDeathSignal(t *testing.T) {
	c := newTestController(t, &recordingSpawner{})
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	first, _ := c.Life()
	if _, err := c.NotifyDeath(first.ID, 10); err != nil {
		t.Fatalf("notify death: %v", err)
	}

	// second signal for the same life
	_, err := c.NotifyDeath(first.ID, 10)
	if !errors.Is(err, ErrAgentMismatch) {
		t.Fatalf("expected agent mismatch, got %v", err)
	}
	if c.State() != StateHalted {
		t.Fatalf("expected halted, got %s", c.State())
	}
	if c.Archive().Len() != 1 {
		t.Fatalf("archive changed after invariant violation: %d", c.Archive().Len())
	}

	live, _ := c.Life()
	if _, err := c.NotifyDeath(live.ID, 10); !errors.Is(err, ErrHalted) || !errors.Is(err, ErrAgentMismatch) {
		t.Fatalf("expected halted wrapping mismatch, got %v", err)
	}
	if _, err := c.Tick(0.1, true, nopActuator{}); !errors.Is(err, ErrHalted) {
		t.Fatalf("expected halted tick, got %v", err)
	}
}

func TestControllerDeathBeforeStart(t *testing.T) {
	c := newTestController(t, &recordingSpawner{})
	if _, err := c.NotifyDeath("ghost", 1); !errors.Is(err, ErrNoActiveAgent) {
		t.Fatalf("expected no active agent, got %v", err)
	}
	if c.State() != StateHalted {
		t.Fatalf("expected halted, got %s", c.State())
	}
}

func TestControllerSpawnFailureHalts(t *testing.T) {
	boom := errors.New("no body")
	c := newTestController(t, &recordingSpawner{err: boom})
	if err := c.Start(); !errors.Is(err, boom) {
		t.Fatalf("expected spawn error, got %v", err)
	}
	if c.State() != StateHalted {
		t.Fatalf("expected halted, got %s", c.State())
	}
}

func TestControllerRunsManyGenerations(t *testing.T) {
	spawner := &recordingSpawner{}
	c := newTestController(t, spawner)
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for gen := 0; gen < 30; gen++ {
		live, _ := c.Life()
		if live.Genome.Generation != gen {
			t.Fatalf("expected generation %d, got %d", gen, live.Genome.Generation)
		}
		if gen >= 2 && live.Lineage.Operation != OperationMate {
			t.Fatalf("generation %d should be mated, got %s", gen, live.Lineage.Operation)
		}
		for i := 0; i < 30; i++ {
			if _, err := c.Tick(1.0/30, true, nopActuator{}); err != nil {
				t.Fatalf("tick: %v", err)
			}
		}
		if _, err := c.NotifyDeath(live.ID, float64(gen%7)); err != nil {
			t.Fatalf("notify death: %v", err)
		}
	}
	if c.Archive().Len() != 30 || len(spawner.genomes) != 31 {
		t.Fatalf("unexpected totals: records=%d spawns=%d", c.Archive().Len(), len(spawner.genomes))
	}
	for i, g := range spawner.genomes {
		if g.Generation != i {
			t.Fatalf("spawn %d carried generation %d", i, g.Generation)
		}
	}
}

func TestNewControllerValidatesConfig(t *testing.T) {
	if _, err := NewController(Config{MutationChance: 1.5}, rng.New(1), &recordingSpawner{}); err == nil {
		t.Fatal("expected invalid mutation chance error")
	}
	if _, err := NewController(Config{MutationRate: -1}, rng.New(1), &recordingSpawner{}); err == nil {
		t.Fatal("expected invalid mutation rate error")
	}
	if _, err := NewController(DefaultConfig(), nil, &recordingSpawner{}); err == nil {
		t.Fatal("expected missing source error")
	}
}
