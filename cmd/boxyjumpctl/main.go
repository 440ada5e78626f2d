package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"boxyjump/internal/model"
	"boxyjump/internal/storage"
	"boxyjump/pkg/boxyjump"
)

const defaultDBPath = "boxyjump.db"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "watch":
		return runWatch(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "top":
		return runTop(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind   *string
	dbPath *string
	debug  *bool
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:   fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath: fs.String("db-path", defaultDBPath, "sqlite database path"),
		debug:  fs.Bool("debug", false, "write debug logs to logs/boxyjump.log"),
	}
}

func (f storeFlags) client() (*boxyjump.Client, func(), error) {
	logFile := setupLogging(*f.debug)
	client, err := boxyjump.New(boxyjump.Options{
		StoreKind: *f.kind,
		DBPath:    *f.dbPath,
		Logger:    log.Default(),
	})
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return client, cleanup, nil
}

// parseRunRequest registers the run flags, parses args and merges them over
// the optional -config file.
func parseRunRequest(fs *flag.FlagSet, args []string, defaultGens int) (boxyjump.RunRequest, storeFlags, error) {
	defaults := boxyjump.DefaultRunRequest()
	configPath := fs.String("config", "", "optional run config JSON path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	seed := fs.Int64("seed", defaults.Seed, "evolution rng seed")
	courseSeed := fs.Int64("course-seed", defaults.CourseSeed, "course layout seed")
	generations := fs.Int("gens", defaultGens, "generation count")
	mutationChance := fs.Float64("mutation-chance", defaults.MutationChance, "probability an optional mutation step runs")
	mutationRate := fs.Float64("mutation-rate", defaults.MutationRate, "fraction a response field moves per alteration")
	significantProgress := fs.Float64("significant-progress", defaults.SignificantProgress, "score a generation must exceed to become a breeding partner")
	maxLife := fs.Float64("max-life", defaults.MaxLifeSeconds, "maximum simulated seconds per life (0 disables the cap)")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return boxyjump.RunRequest{}, storeFlags{}, err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return boxyjump.RunRequest{}, storeFlags{}, err
	}
	if *configPath == "" {
		req = boxyjump.RunRequest{
			RunID:               *runID,
			Seed:                *seed,
			CourseSeed:          *courseSeed,
			Generations:         *generations,
			MutationChance:      *mutationChance,
			MutationRate:        *mutationRate,
			SignificantProgress: *significantProgress,
			MaxLifeSeconds:      *maxLife,
		}
		return req, store, nil
	}
	overrideFromFlags(&req, setFlags, map[string]any{
		"run-id":               *runID,
		"seed":                 *seed,
		"course-seed":          *courseSeed,
		"gens":                 *generations,
		"mutation-chance":      *mutationChance,
		"mutation-rate":        *mutationRate,
		"significant-progress": *significantProgress,
		"max-life":             *maxLife,
	})
	return req, store, nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	req, store, err := parseRunRequest(fs, args, 100)
	if err != nil {
		return err
	}
	client, cleanup, err := store.client()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := client.Run(ctx, req, func(r boxyjump.GenerationReport) {
		fmt.Printf("generation=%d score=%.4f distance=%.2f elapsed=%.2f cause=%s operation=%s parents=%s\n",
			r.Generation, r.Score, r.Distance, r.Elapsed, r.Cause, r.Operation, formatParents(r.ParentGenerations))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("run_id=%s generations=%d best_generation=%d best_score=%.4f\n",
		summary.RunID, summary.Generations, summary.BestGeneration, summary.BestScore)
	return nil
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	speed := fs.Int("speed", 1, "simulation frames per rendered frame")
	req, store, err := parseRunRequest(fs, args, 1000)
	if err != nil {
		return err
	}
	if *speed <= 0 {
		return errors.New("speed must be > 0")
	}
	client, cleanup, err := store.client()
	if err != nil {
		return err
	}
	defer cleanup()

	session, err := client.NewSession(ctx, req)
	if err != nil {
		return err
	}
	screen, err := newScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	if err := watchLoop(ctx, screen, session, *speed, frameInterval); err != nil {
		return err
	}
	summary := session.Summary()
	fmt.Printf("run_id=%s generations=%d best_generation=%d best_score=%.4f\n",
		summary.RunID, summary.Generations, summary.BestGeneration, summary.BestScore)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to print (0 for all)")
	jsonOut := fs.Bool("json", false, "emit runs as JSON")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, cleanup, err := store.client()
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}
	if *jsonOut {
		return writeJSON(runs)
	}
	for _, r := range runs {
		fmt.Printf("run_id=%s started=%s seed=%d course_seed=%d mutation_chance=%.3f mutation_rate=%.3f\n",
			r.ID, r.StartedAt.Format("2006-01-02T15:04:05Z"), r.Seed, r.CourseSeed, r.MutationChance, r.MutationRate)
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	return runLifeQuery(ctx, "history", args, 0)
}

func runTop(ctx context.Context, args []string) error {
	return runLifeQuery(ctx, "top", args, 3)
}

func runLifeQuery(ctx context.Context, name string, args []string, defaultLimit int) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", defaultLimit, "max lives to print")
	jsonOut := fs.Bool("json", false, "emit lives as JSON")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return fmt.Errorf("%s requires --run-id or --latest", name)
	}
	client, cleanup, err := store.client()
	if err != nil {
		return err
	}
	defer cleanup()

	query := boxyjump.QueryRequest{RunID: *runID, Latest: *latest, Limit: *limit}
	var lives []model.LifeRecord
	if name == "top" {
		lives, err = client.TopRecords(ctx, query)
	} else {
		lives, err = client.History(ctx, query)
	}
	if err != nil {
		return err
	}
	if len(lives) == 0 {
		fmt.Println("no lives")
		return nil
	}
	if *jsonOut {
		return writeJSON(lives)
	}
	for _, l := range lives {
		fmt.Printf("generation=%d score=%.4f distance=%.2f elapsed=%.2f operation=%s parents=%s receptors=%s responses=%d\n",
			l.Generation, l.Score, l.Distance, l.Elapsed, l.Operation, formatParents(l.ParentGenerations),
			strings.Join(l.Genome.Receptors, ","), len(l.Genome.Responses))
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatParents(parents []int) string {
	if len(parents) == 0 {
		return "-"
	}
	parts := make([]string, len(parents))
	for i, p := range parents {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ",")
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: boxyjumpctl <run|watch|runs|history|top> [flags]", msg)
}
