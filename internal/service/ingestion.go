// Package service orchestrates the pipeline runs that the scheduler and
// the admin surface trigger.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ongekimuseum/museum-server/internal/catalog"
	"github.com/ongekimuseum/museum-server/internal/feed"
	"github.com/ongekimuseum/museum-server/internal/ops"
)

// IngestionService runs one full feed ingestion: every configured source is
// fetched, the payloads are combined into a single batch, and the batch is
// reconciled against the mirror in one pass.
type IngestionService struct {
	client     *feed.Client
	reconciler *catalog.Reconciler
	logger     *slog.Logger
	notifier   ops.Notifier
}

// NewIngestionService creates the ingestion service.
func NewIngestionService(client *feed.Client, reconciler *catalog.Reconciler, logger *slog.Logger, notifier ops.Notifier) *IngestionService {
	return &IngestionService{
		client:     client,
		reconciler: reconciler,
		logger:     logger,
		notifier:   notifier,
	}
}

// RunIngestion fetches all feed sources and reconciles the combined batch.
// A failed fetch aborts the whole run before anything is persisted, so a
// flaky upstream can never soft-delete the rows its records would have kept
// alive.
func (s *IngestionService) RunIngestion(ctx context.Context) (catalog.Result, error) {
	var batch []feed.Record

	for _, url := range s.client.Sources() {
		records, err := s.client.Fetch(ctx, url)
		if err != nil {
			s.logger.Error("feed fetch failed, aborting ingestion", "url", url, "error", err)
			s.notifier.Notify(ctx, ops.SeverityError, fmt.Sprintf("ingestion aborted: %v", err))
			return catalog.Result{}, err
		}
		batch = append(batch, records...)
	}

	result, err := s.reconciler.Reconcile(ctx, batch)
	if err != nil {
		s.logger.Error("reconciliation failed", "error", err)
		s.notifier.Notify(ctx, ops.SeverityError, fmt.Sprintf("ingestion failed: %v", err))
		return catalog.Result{}, err
	}

	return result, nil
}
