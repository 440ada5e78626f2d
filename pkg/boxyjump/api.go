package boxyjump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"boxyjump/internal/evo"
	"boxyjump/internal/model"
	"boxyjump/internal/rng"
	"boxyjump/internal/scape"
	"boxyjump/internal/storage"
)

const (
	defaultDBPath         = "boxyjump.db"
	defaultGenerations    = 100
	defaultMaxLifeSeconds = 120
	defaultTopLimit       = 10
)

type Options struct {
	StoreKind string
	DBPath    string
	// Logger receives spawn and death lines; nil discards them.
	Logger *log.Logger
}

type Client struct {
	store       storage.Store
	logger      *log.Logger
	initialized bool
}

// RunRequest is taken as given: zero mutation values disable mutation and a
// zero MaxLifeSeconds disables the per-life cap. Start from DefaultRunRequest
// to get the usual settings. An empty RunID gets a fresh one and a
// non-positive Generations runs the default count.
type RunRequest struct {
	RunID               string
	Seed                int64
	CourseSeed          int64
	Generations         int
	MutationChance      float64
	MutationRate        float64
	SignificantProgress float64
	MaxLifeSeconds      float64
}

func DefaultRunRequest() RunRequest {
	return RunRequest{
		Seed:                1,
		CourseSeed:          1,
		Generations:         defaultGenerations,
		MutationChance:      evo.DefaultMutationChance,
		MutationRate:        evo.DefaultMutationRate,
		SignificantProgress: evo.DefaultSignificantProgress,
		MaxLifeSeconds:      defaultMaxLifeSeconds,
	}
}

// GenerationReport describes one finished life.
type GenerationReport struct {
	RunID             string
	Generation        int
	Score             float64
	Distance          float64
	Elapsed           float64
	Cause             string
	Operation         string
	ParentGenerations []int
}

type RunSummary struct {
	RunID          string
	Generations    int
	Scores         []float64
	BestGeneration int
	BestScore      float64
}

type QueryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store, logger: logger}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Run evolves req.Generations lives headlessly. onGeneration, when set, sees
// every finished life in order.
func (c *Client) Run(ctx context.Context, req RunRequest, onGeneration func(GenerationReport)) (RunSummary, error) {
	session, err := c.NewSession(ctx, req)
	if err != nil {
		return RunSummary{}, err
	}
	for !session.Done() {
		if err := ctx.Err(); err != nil {
			return session.Summary(), err
		}
		report, err := session.Step(ctx)
		if err != nil {
			return session.Summary(), err
		}
		if report != nil && onGeneration != nil {
			onGeneration(*report)
		}
	}
	return session.Summary(), nil
}

// Session is one run driven a frame at a time, for callers that draw
// between steps. Every finished life is persisted before Step returns.
type Session struct {
	client      *Client
	run         model.Run
	sim         *scape.Simulation
	generations int
	scores      []float64
}

func (c *Client) NewSession(ctx context.Context, req RunRequest) (*Session, error) {
	req, err := normalizeRunRequest(req)
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	evoCfg := evo.Config{
		MutationChance:           req.MutationChance,
		MutationRate:             req.MutationRate,
		SignificantProgressScore: req.SignificantProgress,
	}
	simCfg := scape.DefaultSimulationConfig()
	simCfg.MaxLifeSeconds = req.MaxLifeSeconds
	course := scape.NewCourse(scape.DefaultCourseConfig(req.CourseSeed))
	sim, err := scape.NewSimulation(simCfg, course, evoCfg, rng.New(req.Seed), c.logger)
	if err != nil {
		return nil, err
	}

	run := model.Run{
		VersionedRecord:     storage.Versioned(),
		ID:                  req.RunID,
		Seed:                req.Seed,
		CourseSeed:          req.CourseSeed,
		MutationChance:      req.MutationChance,
		MutationRate:        req.MutationRate,
		SignificantProgress: req.SignificantProgress,
		StartedAt:           time.Now().UTC(),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	c.logger.Printf("run start id=%s seed=%d course_seed=%d generations=%d", run.ID, run.Seed, run.CourseSeed, req.Generations)

	return &Session{
		client:      c,
		run:         run,
		sim:         sim,
		generations: req.Generations,
	}, nil
}

func (s *Session) RunID() string {
	return s.run.ID
}

func (s *Session) Simulation() *scape.Simulation {
	return s.sim
}

func (s *Session) Done() bool {
	return len(s.scores) >= s.generations
}

// Step advances one frame. It returns a report when a life ended on it.
func (s *Session) Step(ctx context.Context) (*GenerationReport, error) {
	death, err := s.sim.Step()
	if err != nil {
		return nil, err
	}
	if death == nil {
		return nil, nil
	}

	outcome := death.Outcome
	rec := outcome.Record
	life := model.LifeRecord{
		VersionedRecord:   storage.Versioned(),
		RunID:             s.run.ID,
		Generation:        rec.Genome.Generation,
		Score:             rec.Score,
		Distance:          outcome.Distance,
		Elapsed:           outcome.Elapsed,
		Operation:         outcome.Lineage.Operation,
		ParentGenerations: append([]int(nil), outcome.Lineage.ParentGenerations...),
		Genome:            rec.Genome.Snapshot(),
	}
	if err := s.client.store.SaveLife(ctx, life); err != nil {
		return nil, fmt.Errorf("save generation %d: %w", life.Generation, err)
	}
	s.scores = append(s.scores, rec.Score)

	return &GenerationReport{
		RunID:             s.run.ID,
		Generation:        life.Generation,
		Score:             life.Score,
		Distance:          life.Distance,
		Elapsed:           life.Elapsed,
		Cause:             death.Cause,
		Operation:         life.Operation,
		ParentGenerations: life.ParentGenerations,
	}, nil
}

func (s *Session) Summary() RunSummary {
	summary := RunSummary{
		RunID:          s.run.ID,
		Generations:    len(s.scores),
		Scores:         append([]float64(nil), s.scores...),
		BestGeneration: -1,
	}
	if best, ok := s.sim.Controller().Archive().Best(); ok {
		summary.BestGeneration = best.Genome.Generation
		summary.BestScore = best.Score
	}
	return summary
}

func (c *Client) Runs(ctx context.Context, limit int) ([]model.Run, error) {
	if limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	// newest first
	out := make([]model.Run, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// History lists a run's lives in generation order.
func (c *Client) History(ctx context.Context, req QueryRequest) ([]model.LifeRecord, error) {
	runID, err := c.resolveRunID(ctx, req, "history")
	if err != nil {
		return nil, err
	}
	lives, err := c.store.ListLives(ctx, runID)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(lives) > req.Limit {
		lives = lives[:req.Limit]
	}
	return lives, nil
}

// TopRecords lists a run's best lives, best first. A zero limit means ten.
func (c *Client) TopRecords(ctx context.Context, req QueryRequest) ([]model.LifeRecord, error) {
	runID, err := c.resolveRunID(ctx, req, "top records")
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultTopLimit
	}
	return c.store.TopLives(ctx, runID, limit)
}

func (c *Client) resolveRunID(ctx context.Context, req QueryRequest, what string) (string, error) {
	if req.RunID != "" && req.Latest {
		return "", errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return "", errors.New("limit must be >= 0")
	}
	if req.RunID == "" && !req.Latest {
		return "", fmt.Errorf("%s requires run id or latest", what)
	}
	if err := c.Init(ctx); err != nil {
		return "", err
	}

	if !req.Latest {
		if _, ok, err := c.store.GetRun(ctx, req.RunID); err != nil {
			return "", err
		} else if !ok {
			return "", fmt.Errorf("run not found: %s", req.RunID)
		}
		return req.RunID, nil
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[len(runs)-1].ID, nil
}

func normalizeRunRequest(req RunRequest) (RunRequest, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if req.Generations <= 0 {
		req.Generations = defaultGenerations
	}
	if req.MaxLifeSeconds < 0 {
		return RunRequest{}, errors.New("max life seconds must be >= 0")
	}
	if err := (evo.Config{
		MutationChance:           req.MutationChance,
		MutationRate:             req.MutationRate,
		SignificantProgressScore: req.SignificantProgress,
	}).Validate(); err != nil {
		return RunRequest{}, err
	}
	return req, nil
}
