package scape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"boxyjump/internal/evo"
	"boxyjump/internal/genotype"
	"boxyjump/internal/rng"
)

// SimulationConfig holds the world constants for a run.
type SimulationConfig struct {
	DeltaTime      float64
	SpawnX, SpawnY float64
	DeathPlaneY    float64
	// SlowCheckInterval and SlowMinSpeed drive the slow-progress watchdog.
	SlowCheckInterval float64
	SlowMinSpeed      float64
	// MaxLifeSeconds caps a single life; 0 disables the cap.
	MaxLifeSeconds float64
	Body           BodyConfig
}

func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		DeltaTime:         1.0 / 60,
		SpawnX:            0,
		SpawnY:            5,
		DeathPlaneY:       -1,
		SlowCheckInterval: 5,
		SlowMinSpeed:      5,
		MaxLifeSeconds:    120,
		Body:              DefaultBodyConfig(),
	}
}

// Death is one life ending, with the signal that ended it.
type Death struct {
	Outcome evo.Outcome
	Cause   string
}

// Simulation couples the course physics and death detectors to the
// evolution controller. One frame per Step; a death immediately spawns the
// next agent.
type Simulation struct {
	cfg        SimulationConfig
	course     *Course
	body       *Body
	plane      DeathPlane
	slow       *SlowProgress
	controller *evo.Controller
	logger     *log.Logger

	agentID   evo.AgentID
	lives     int
	lastFired int
}

func NewSimulation(cfg SimulationConfig, course *Course, evoCfg evo.Config, src rng.Source, logger *log.Logger) (*Simulation, error) {
	if cfg.DeltaTime <= 0 {
		return nil, fmt.Errorf("delta time must be > 0, got %f", cfg.DeltaTime)
	}
	if course == nil {
		return nil, errors.New("course is required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Simulation{
		cfg:    cfg,
		course: course,
		body:   NewBody(cfg.Body, course),
		plane:  DeathPlane{Y: cfg.DeathPlaneY},
		slow:   NewSlowProgress(cfg.SlowCheckInterval, cfg.SlowMinSpeed),
		logger: logger,
	}
	controller, err := evo.NewController(evoCfg, src, s)
	if err != nil {
		return nil, err
	}
	s.controller = controller
	return s, nil
}

// Spawn resets the body for a new life. It is called by the controller.
func (s *Simulation) Spawn(id evo.AgentID, genome genotype.Genome) error {
	s.agentID = id
	s.body.Reset(s.cfg.SpawnX, s.cfg.SpawnY)
	s.slow.Reset()
	s.logger.Printf("spawn generation=%d agent=%s receptors=%d responses=%d",
		genome.Generation, id, genome.Receptors.Len(), len(genome.Responses))
	return nil
}

func (s *Simulation) Controller() *evo.Controller {
	return s.controller
}

func (s *Simulation) Course() *Course {
	return s.course
}

func (s *Simulation) Body() *Body {
	return s.body
}

// Distance is the live body's horizontal displacement from spawn.
func (s *Simulation) Distance() float64 {
	return s.body.X - s.cfg.SpawnX
}

// Lives counts completed lives.
func (s *Simulation) Lives() int {
	return s.lives
}

// LastFired is how many responses fired on the most recent step.
func (s *Simulation) LastFired() int {
	return s.lastFired
}

// Step advances one frame and reports a death if one happened.
func (s *Simulation) Step() (*Death, error) {
	if s.controller.State() == evo.StateIdle {
		if err := s.controller.Start(); err != nil {
			return nil, err
		}
	}

	dt := s.cfg.DeltaTime
	fired, err := s.controller.Tick(dt, s.body.Grounded(), s.body)
	if err != nil {
		return nil, err
	}
	s.lastFired = len(fired)
	s.body.Step(dt)

	distance := s.Distance()
	cause := ""
	switch {
	case s.plane.Crossed(s.body):
		cause = CauseDeathPlane
	case s.slow.Observe(dt, distance):
		cause = CauseSlowProgress
	case s.cfg.MaxLifeSeconds > 0 && s.controller.Elapsed() >= s.cfg.MaxLifeSeconds:
		cause = CauseLifeLimit
	}
	if cause == "" {
		return nil, nil
	}

	outcome, err := s.controller.NotifyDeath(s.agentID, distance)
	if err != nil {
		return nil, err
	}
	s.lives++
	s.logger.Printf("death generation=%d cause=%s distance=%.2f elapsed=%.2f score=%.3f",
		outcome.Record.Genome.Generation, cause, outcome.Distance, outcome.Elapsed, outcome.Record.Score)
	return &Death{Outcome: outcome, Cause: cause}, nil
}

// Run steps the world until the given number of lives has completed.
// onDeath, when set, sees every death in order; an error from it stops the run.
func (s *Simulation) Run(ctx context.Context, lives int, onDeath func(Death) error) error {
	target := s.lives + lives
	for s.lives < target {
		if err := ctx.Err(); err != nil {
			return err
		}
		death, err := s.Step()
		if err != nil {
			return err
		}
		if death == nil || onDeath == nil {
			continue
		}
		if err := onDeath(*death); err != nil {
			return err
		}
	}
	return nil
}
