package scape

import (
	"context"
	"errors"
	"testing"

	"boxyjump/internal/evo"
	"boxyjump/internal/rng"
)

func newTestSimulation(t *testing.T, seed int64) *Simulation {
	t.Helper()
	cfg := DefaultSimulationConfig()
	cfg.MaxLifeSeconds = 30
	sim, err := NewSimulation(cfg, NewCourse(DefaultCourseConfig(seed)), evo.DefaultConfig(), rng.New(seed), nil)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return sim
}

func TestSimulationRunsRequestedLives(t *testing.T) {
	sim := newTestSimulation(t, 4)
	var deaths []Death
	err := sim.Run(context.Background(), 12, func(d Death) error {
		deaths = append(deaths, d)
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(deaths) != 12 || sim.Lives() != 12 {
		t.Fatalf("expected 12 deaths, got %d (lives=%d)", len(deaths), sim.Lives())
	}
	for i, d := range deaths {
		if d.Outcome.Record.Genome.Generation != i {
			t.Fatalf("death %d carried generation %d", i, d.Outcome.Record.Genome.Generation)
		}
		switch d.Cause {
		case CauseDeathPlane, CauseSlowProgress, CauseLifeLimit:
		default:
			t.Fatalf("unexpected cause %q", d.Cause)
		}
		if d.Outcome.Record.Score != evo.Score(d.Outcome.Distance, d.Outcome.Elapsed) {
			t.Fatalf("death %d score does not match fitness: %+v", i, d.Outcome)
		}
	}
	archive := sim.Controller().Archive()
	if archive.Len() != 12 {
		t.Fatalf("expected 12 archived records, got %d", archive.Len())
	}
	live, ok := sim.Controller().Life()
	if !ok || live.Genome.Generation != 12 {
		t.Fatalf("expected generation 12 alive, got %+v", live)
	}
}

func TestSimulationIsReproducible(t *testing.T) {
	collect := func() []float64 {
		sim := newTestSimulation(t, 9)
		var scores []float64
		if err := sim.Run(context.Background(), 6, func(d Death) error {
			scores = append(scores, d.Outcome.Record.Score)
			return nil
		}); err != nil {
			t.Fatalf("run: %v", err)
		}
		return scores
	}
	a, b := collect(), collect()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("life %d diverged: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestSimulationStopsOnCallbackError(t *testing.T) {
	sim := newTestSimulation(t, 2)
	stop := errors.New("stop")
	err := sim.Run(context.Background(), 5, func(Death) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if sim.Lives() != 1 {
		t.Fatalf("expected one life before stop, got %d", sim.Lives())
	}
}

func TestSimulationHonorsContext(t *testing.T) {
	sim := newTestSimulation(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sim.Run(ctx, 1, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestSimulationLifeLimit(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.SlowCheckInterval = 0
	cfg.MaxLifeSeconds = 2
	sim, err := NewSimulation(cfg, NewCourse(DefaultCourseConfig(1)), evo.DefaultConfig(), rng.New(1), nil)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	var death *Death
	for i := 0; i < 1000 && death == nil; i++ {
		death, err = sim.Step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if death == nil {
		t.Fatal("expected a death within the life limit")
	}
	if death.Cause != CauseLifeLimit && death.Cause != CauseDeathPlane {
		t.Fatalf("unexpected cause %s", death.Cause)
	}
}

func TestNewSimulationValidates(t *testing.T) {
	if _, err := NewSimulation(SimulationConfig{}, NewCourse(DefaultCourseConfig(1)), evo.DefaultConfig(), rng.New(1), nil); err == nil {
		t.Fatal("expected delta time error")
	}
	if _, err := NewSimulation(DefaultSimulationConfig(), nil, evo.DefaultConfig(), rng.New(1), nil); err == nil {
		t.Fatal("expected course error")
	}
}
