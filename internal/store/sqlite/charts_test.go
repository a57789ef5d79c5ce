package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

func seedSong(t *testing.T, s *Store, id, title string, addedAt time.Time) {
	t.Helper()
	err := s.SaveSongs(context.Background(), []*domain.Song{
		{ID: id, CatalogEntryID: "music-" + id, Title: title, Artist: "A", AddedAt: addedAt},
	})
	if err != nil {
		t.Fatalf("seed song %s: %v", id, err)
	}
}

func TestSaveCharts_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedSong(t, s, "song-1", "STARTLINER", time.Now())

	err := s.SaveCharts(ctx, []*domain.Chart{
		{ID: "chart-m", SongID: "song-1", Difficulty: domain.DifficultyMaster, Level: 138},
		{ID: "chart-b", SongID: "song-1", Difficulty: domain.DifficultyBasic, Level: 30, Bonus: true},
	})
	if err != nil {
		t.Fatalf("SaveCharts: %v", err)
	}

	charts, err := s.ListCharts(ctx)
	if err != nil {
		t.Fatalf("ListCharts: %v", err)
	}
	if len(charts) != 2 {
		t.Fatalf("charts = %d, want 2", len(charts))
	}
	if charts[0].Difficulty != domain.DifficultyBasic {
		t.Errorf("charts[0] = %s, want easiest slot first", charts[0].Difficulty)
	}
	if !charts[0].Bonus || charts[0].Level != 30 {
		t.Errorf("chart = %+v", charts[0])
	}
}

func TestSaveCharts_DuplicateSlotRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedSong(t, s, "song-1", "STARTLINER", time.Now())

	if err := s.SaveCharts(ctx, []*domain.Chart{
		{ID: "chart-1", SongID: "song-1", Difficulty: domain.DifficultyMaster, Level: 130},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := s.SaveCharts(ctx, []*domain.Chart{
		{ID: "chart-2", SongID: "song-1", Difficulty: domain.DifficultyMaster, Level: 140},
	})
	if err == nil {
		t.Fatal("second chart for the same (song, difficulty) was accepted")
	}
}

func TestSaveCharts_OrphanChartRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SaveCharts(ctx, []*domain.Chart{
		{ID: "chart-1", SongID: "song-missing", Difficulty: domain.DifficultyBasic, Level: 30},
	})
	if err == nil {
		t.Fatal("chart referencing a missing song was accepted")
	}
}

func TestListChartsWithSongs_JoinsNewestSongFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 7, 1, 7, 0, 0, 0, time.UTC)
	seedSong(t, s, "song-old", "古い曲", base)
	seedSong(t, s, "song-new", "新しい曲", base.AddDate(0, 6, 0))

	err := s.SaveCharts(ctx, []*domain.Chart{
		{ID: "chart-a", SongID: "song-old", Difficulty: domain.DifficultyBasic, Level: 30},
		{ID: "chart-b", SongID: "song-new", Difficulty: domain.DifficultyMaster, Level: 140},
	})
	if err != nil {
		t.Fatalf("SaveCharts: %v", err)
	}

	joined, err := s.ListChartsWithSongs(ctx)
	if err != nil {
		t.Fatalf("ListChartsWithSongs: %v", err)
	}
	if len(joined) != 2 {
		t.Fatalf("joined = %d, want 2", len(joined))
	}
	if joined[0].Song.ID != "song-new" || joined[0].Chart.ID != "chart-b" {
		t.Errorf("joined[0] = %s/%s, want newest song first", joined[0].Song.ID, joined[0].Chart.ID)
	}
	if joined[1].Song.Title != "古い曲" {
		t.Errorf("joined[1].Song.Title = %q", joined[1].Song.Title)
	}
}

func TestSaveCharts_UpsertUpdatesLevelAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedSong(t, s, "song-1", "STARTLINER", time.Now())

	c := &domain.Chart{ID: "chart-1", SongID: "song-1", Difficulty: domain.DifficultyLunatic, Level: 140}
	if err := s.SaveCharts(ctx, []*domain.Chart{c}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	c.Level = 145
	c.Deleted = true
	if err := s.SaveCharts(ctx, []*domain.Chart{c}); err != nil {
		t.Fatalf("update: %v", err)
	}

	charts, err := s.ListCharts(ctx)
	if err != nil {
		t.Fatalf("ListCharts: %v", err)
	}
	if len(charts) != 1 || charts[0].Level != 145 || !charts[0].Deleted {
		t.Errorf("charts = %+v, want updated in place", charts[0])
	}
}
