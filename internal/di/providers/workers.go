package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/ongekimuseum/museum-server/internal/config"
	"github.com/ongekimuseum/museum-server/internal/jobs"
	"github.com/ongekimuseum/museum-server/internal/logger"
	"github.com/ongekimuseum/museum-server/internal/service"
)

// SchedulerHandle wraps the job scheduler with shutdown capability.
type SchedulerHandle struct {
	*jobs.Scheduler
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *SchedulerHandle) Shutdown() error {
	if h.started {
		h.Stop()
	}
	return nil
}

// ProvideScheduler provides the daily pipeline scheduler.
func ProvideScheduler(i do.Injector) (*SchedulerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	ingestion := do.MustInvoke[*service.IngestionService](i)
	normalization := do.MustInvoke[*service.NormalizationService](i)

	location, err := cfg.Jobs.Location()
	if err != nil {
		return nil, err
	}
	ingestionHour, ingestionMinute, err := config.ParseClock(cfg.Jobs.IngestionAt)
	if err != nil {
		return nil, err
	}
	normalizationHour, normalizationMinute, err := config.ParseClock(cfg.Jobs.NormalizationAt)
	if err != nil {
		return nil, err
	}

	scheduler := jobs.NewScheduler(location, log.Logger)

	scheduler.Add(jobs.Task{
		Name:       "ingestion",
		Hour:       ingestionHour,
		Minute:     ingestionMinute,
		RunOnStart: cfg.Jobs.RunOnStart,
		Run: func(ctx context.Context) error {
			_, err := ingestion.RunIngestion(ctx)
			return err
		},
	})
	scheduler.Add(jobs.Task{
		Name:   "normalization",
		Hour:   normalizationHour,
		Minute: normalizationMinute,
		Run: func(ctx context.Context) error {
			_, err := normalization.RunNormalization(ctx)
			return err
		},
	})

	if !cfg.Jobs.Enabled {
		log.Info("Scheduled jobs disabled by configuration")
		return &SchedulerHandle{Scheduler: scheduler, started: false}, nil
	}

	scheduler.Start()

	return &SchedulerHandle{Scheduler: scheduler, started: true}, nil
}
