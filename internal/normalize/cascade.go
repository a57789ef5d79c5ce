package normalize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ongekimuseum/museum-server/internal/ops"
)

// Normalizer is one stage of the cascade.
type Normalizer interface {
	Name() string
	Normalize(ctx context.Context) (int, error)
}

// StageResult is the outcome of one cascade stage.
type StageResult struct {
	Name  string
	Count int
	Err   error
}

// Cascade runs the normalizers in their fixed dependency order: chapters,
// categories, songs, charts. Charts join against songs, so the order is
// load-bearing.
type Cascade struct {
	stages   []Normalizer
	logger   *slog.Logger
	notifier ops.Notifier
}

// NewCascade wires the four standard stages against one store.
func NewCascade(store Store, logger *slog.Logger, notifier ops.Notifier) *Cascade {
	return &Cascade{
		stages: []Normalizer{
			NewChapterNormalizer(store, logger, notifier),
			NewCategoryNormalizer(store, logger, notifier),
			NewSongNormalizer(store, logger, notifier),
			NewChartNormalizer(store, logger, notifier),
		},
		logger:   logger,
		notifier: notifier,
	}
}

// Run executes every stage in order. A failed stage is reported and does
// not stop later stages; there is no cross-stage rollback.
func (c *Cascade) Run(ctx context.Context) []StageResult {
	results := make([]StageResult, 0, len(c.stages))

	for _, stage := range c.stages {
		c.logger.Info("normalization stage started", "stage", stage.Name())

		count, err := stage.Normalize(ctx)
		if err != nil {
			c.logger.Error("normalization stage failed", "stage", stage.Name(), "error", err)
			c.notifier.Notify(ctx, ops.SeverityError, fmt.Sprintf("normalization stage %s failed: %v", stage.Name(), err))
			results = append(results, StageResult{Name: stage.Name(), Err: err})
			continue
		}

		c.logger.Info("normalization stage finished", "stage", stage.Name(), "count", count)
		results = append(results, StageResult{Name: stage.Name(), Count: count})
	}

	return results
}
