package evo

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"boxyjump/internal/agent"
	"boxyjump/internal/genotype"
	"boxyjump/internal/model"
	"boxyjump/internal/rng"
)

var (
	ErrAgentMismatch  = errors.New("death signal for an agent that is not the live agent")
	ErrNoActiveAgent  = errors.New("no live agent")
	ErrNotStarted     = errors.New("controller not started")
	ErrAlreadyStarted = errors.New("controller already started")
	ErrHalted         = errors.New("evolution halted")
)

type State int

const (
	StateIdle State = iota
	StateSpawned
	StateEvaluating
	StateDead
	// StateHalted follows an invariant violation; nothing proceeds after it.
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawned:
		return "spawned"
	case StateEvaluating:
		return "evaluating"
	case StateDead:
		return "dead"
	case StateHalted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AgentID identifies one life.
type AgentID string

// Spawner places a fresh body in the world for a new life.
type Spawner interface {
	Spawn(id AgentID, genome genotype.Genome) error
}

// ArchiveView is the read-only surface handed to telemetry.
type ArchiveView interface {
	Len() int
	TopScores(n int) []ScoredRecord
	Records() []ScoredRecord
	Recent(n int) []ScoredRecord
	Best() (ScoredRecord, bool)
}

// LifeInfo describes the live agent.
type LifeInfo struct {
	ID      AgentID
	Genome  model.GenomeSnapshot
	Lineage Lineage
	Elapsed float64
}

// Outcome is the result of one finished life.
type Outcome struct {
	AgentID  AgentID
	Record   ScoredRecord
	Distance float64
	Elapsed  float64
	Lineage  Lineage
}

type life struct {
	id      AgentID
	genome  genotype.Genome
	lineage Lineage
	cortex  *agent.Cortex
}

// Controller runs one agent at a time: it breeds a genome, evaluates it while
// the agent lives, scores it on death and immediately spawns the next one.
type Controller struct {
	src     rng.Source
	archive *Archive
	spawner Spawner

	state   State
	live    *life
	elapsed float64
	err     error
}

func NewController(cfg Config, src rng.Source, spawner Spawner) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("random source is required")
	}
	if spawner == nil {
		return nil, errors.New("spawner is required")
	}
	return &Controller{
		src:     src,
		archive: NewArchive(cfg),
		spawner: spawner,
	}, nil
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Archive() ArchiveView {
	return c.archive
}

// Elapsed is the simulated time of the current life in seconds.
func (c *Controller) Elapsed() float64 {
	return c.elapsed
}

// Life describes the live agent, if any.
func (c *Controller) Life() (LifeInfo, bool) {
	if c.live == nil {
		return LifeInfo{}, false
	}
	return LifeInfo{
		ID:      c.live.id,
		Genome:  c.live.genome.Snapshot(),
		Lineage: c.live.lineage,
		Elapsed: c.elapsed,
	}, true
}

// Start breeds and spawns the first agent.
func (c *Controller) Start() error {
	if err := c.halted(); err != nil {
		return err
	}
	if c.state != StateIdle {
		return ErrAlreadyStarted
	}
	return c.spawnNext()
}

// Tick evaluates the live agent's genome for one frame.
func (c *Controller) Tick(deltaTime float64, grounded bool, act genotype.Actuator) ([]agent.Firing, error) {
	if err := c.halted(); err != nil {
		return nil, err
	}
	if c.state == StateIdle {
		return nil, ErrNotStarted
	}
	c.state = StateEvaluating
	c.elapsed += deltaTime

	fired, err := c.live.cortex.Tick(c.src, deltaTime, grounded, act)
	if err != nil {
		return fired, c.fail(fmt.Errorf("generation %d: %w", c.live.genome.Generation, err))
	}
	return fired, nil
}

// NotifyDeath ends the live agent's life, records its score and spawns the
// next agent. A signal for any other agent halts the controller.
func (c *Controller) NotifyDeath(id AgentID, distance float64) (Outcome, error) {
	if err := c.halted(); err != nil {
		return Outcome{}, err
	}
	if c.live == nil {
		return Outcome{}, c.fail(fmt.Errorf("%w: death signal for %s", ErrNoActiveAgent, id))
	}
	if id != c.live.id {
		return Outcome{}, c.fail(fmt.Errorf("%w: got %s, live %s", ErrAgentMismatch, id, c.live.id))
	}

	c.state = StateDead
	dead := c.live
	c.live = nil

	rec, err := c.archive.Record(Score(distance, c.elapsed), dead.genome)
	if err != nil {
		return Outcome{}, c.fail(err)
	}
	outcome := Outcome{
		AgentID:  dead.id,
		Record:   rec,
		Distance: distance,
		Elapsed:  c.elapsed,
		Lineage:  dead.lineage,
	}
	if err := c.spawnNext(); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (c *Controller) spawnNext() error {
	genome, lineage, err := c.archive.ProposeNextGenome(c.src)
	if err != nil {
		return c.fail(err)
	}
	next := &life{
		id:      AgentID(uuid.NewString()),
		genome:  genome,
		lineage: lineage,
		cortex:  agent.NewCortex(genome),
	}
	if err := c.spawner.Spawn(next.id, genome.Clone()); err != nil {
		return c.fail(fmt.Errorf("spawn generation %d: %w", genome.Generation, err))
	}
	c.live = next
	c.elapsed = 0
	c.state = StateSpawned
	return nil
}

func (c *Controller) fail(err error) error {
	c.state = StateHalted
	c.err = err
	return err
}

func (c *Controller) halted() error {
	if c.state != StateHalted {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrHalted, c.err)
}
