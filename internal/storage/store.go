package storage

import (
	"context"

	"boxyjump/internal/model"
)

// Store persists run history: one run header plus one record per scored life.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (model.Run, bool, error)
	ListRuns(ctx context.Context) ([]model.Run, error)
	SaveLife(ctx context.Context, life model.LifeRecord) error
	// ListLives returns a run's lives in generation order.
	ListLives(ctx context.Context, runID string) ([]model.LifeRecord, error)
	// TopLives returns up to n lives, best score first, earlier generation first on ties.
	TopLives(ctx context.Context, runID string, n int) ([]model.LifeRecord, error)
}
