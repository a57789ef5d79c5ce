package service

import (
	"context"
	"log/slog"

	"github.com/ongekimuseum/museum-server/internal/errors"
	"github.com/ongekimuseum/museum-server/internal/normalize"
)

// NormalizationService runs the normalization cascade over the mirror.
type NormalizationService struct {
	cascade *normalize.Cascade
	logger  *slog.Logger
}

// NewNormalizationService creates the normalization service.
func NewNormalizationService(cascade *normalize.Cascade, logger *slog.Logger) *NormalizationService {
	return &NormalizationService{cascade: cascade, logger: logger}
}

// RunNormalization executes the cascade and returns the per-stage results.
// The error joins every failed stage; partial failure still leaves the
// successful stages committed.
func (s *NormalizationService) RunNormalization(ctx context.Context) ([]normalize.StageResult, error) {
	results := s.cascade.Run(ctx)

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}

	return results, errors.Join(errs...)
}
