package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one daily job.
type Task struct {
	Name       string
	Hour       int
	Minute     int
	RunOnStart bool
	Run        func(ctx context.Context) error
}

// Scheduler fires each task once a day at its wall-clock time in the
// configured zone. Runs are sequential per task; a run that overflows past
// the next slot simply delays it, there is never more than one in flight.
type Scheduler struct {
	location *time.Location
	logger   *slog.Logger

	tasks  []Task
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates an empty scheduler for the given zone.
func NewScheduler(location *time.Location, logger *slog.Logger) *Scheduler {
	return &Scheduler{location: location, logger: logger}
}

// Add registers a task. Must be called before Start.
func (s *Scheduler) Add(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start launches one goroutine per task.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}

	s.logger.Info("scheduler started", "tasks", len(s.tasks), "zone", s.location.String())
}

// Stop cancels all task loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	if task.RunOnStart {
		s.execute(ctx, task)
	}

	for {
		next := nextRun(time.Now().In(s.location), task.Hour, task.Minute)
		s.logger.Debug("task scheduled", "task", task.Name, "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, task)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, task Task) {
	start := time.Now()
	s.logger.Info("task started", "task", task.Name)

	if err := task.Run(ctx); err != nil {
		s.logger.Error("task failed", "task", task.Name, "error", err, "duration", time.Since(start))
		return
	}

	s.logger.Info("task finished", "task", task.Name, "duration", time.Since(start))
}

// nextRun returns the next instant strictly after now whose wall clock in
// now's location reads hour:minute.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
