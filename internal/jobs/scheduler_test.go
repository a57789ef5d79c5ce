package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		now  time.Time
		hour int
		min  int
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 1, 15, 6, 0, 0, 0, loc),
			hour: 7, min: 0,
			want: time.Date(2025, 1, 15, 7, 0, 0, 0, loc),
		},
		{
			name: "already passed rolls to tomorrow",
			now:  time.Date(2025, 1, 15, 8, 30, 0, 0, loc),
			hour: 7, min: 0,
			want: time.Date(2025, 1, 16, 7, 0, 0, 0, loc),
		},
		{
			name: "exactly now rolls to tomorrow",
			now:  time.Date(2025, 1, 15, 7, 0, 0, 0, loc),
			hour: 7, min: 0,
			want: time.Date(2025, 1, 16, 7, 0, 0, 0, loc),
		},
		{
			name: "month boundary",
			now:  time.Date(2025, 1, 31, 23, 0, 0, 0, loc),
			hour: 7, min: 30,
			want: time.Date(2025, 2, 1, 7, 30, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRun(tt.now, tt.hour, tt.min)
			if !got.Equal(tt.want) {
				t.Errorf("nextRun = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduler_RunOnStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(time.UTC, logger)

	var ran atomic.Int32
	s.Add(Task{
		Name: "ingestion", Hour: 7, Minute: 0, RunOnStart: true,
		Run: func(context.Context) error {
			ran.Add(1)
			return nil
		},
	})

	s.Start()
	deadline := time.After(2 * time.Second)
	for ran.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("run-on-start task never ran")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	s.Stop()

	if ran.Load() != 1 {
		t.Errorf("ran = %d, want exactly once", ran.Load())
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(time.UTC, logger)
	s.Stop()
}
