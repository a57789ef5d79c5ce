package sqlite

import (
	"context"
	"testing"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

func TestSaveCatalogEntries_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := &domain.CatalogEntry{
		ID:          "music-1",
		New:         "1",
		ReleaseDate: "20250101",
		Title:       "タテマエと本音の大乱闘",
		TitleSort:   "タテマエトホンネノダイラントウ",
		Artist:      "ナナヲアカリ",
		ExternalID:  "2024",
		ChapterID:   "70001",
		ChapterName: "01 ブート",
		Category:    "POPS＆ANIME",
		CategoryID:  "1",
		Copyright:   "(C)SEGA",
		LevBas:      "3",
		LevAdv:      "7",
		LevExc:      "10+",
		LevMas:      "13.8",
		ImageURL:    "jacket.png",
	}

	if err := s.SaveCatalogEntries(ctx, []*domain.CatalogEntry{entry}); err != nil {
		t.Fatalf("SaveCatalogEntries: %v", err)
	}
	if entry.CreatedAt.IsZero() || entry.UpdatedAt.IsZero() {
		t.Error("timestamps not initialized on insert")
	}

	entries, err := s.ListCatalogEntries(ctx)
	if err != nil {
		t.Fatalf("ListCatalogEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	got := entries[0]
	if got.Title != entry.Title || got.Artist != entry.Artist {
		t.Errorf("title/artist = %q/%q", got.Title, got.Artist)
	}
	if got.LevExc != "10+" || got.LevMas != "13.8" {
		t.Errorf("levels = %q/%q, want raw strings preserved", got.LevExc, got.LevMas)
	}
	if got.LevLnt != "" {
		t.Errorf("absent level = %q, want empty", got.LevLnt)
	}
	if got.Deleted {
		t.Error("fresh row marked deleted")
	}
}

func TestSaveCatalogEntries_UpsertUpdatesInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := &domain.CatalogEntry{ID: "music-1", Title: "STARTLINER", LevMas: "13"}
	if err := s.SaveCatalogEntries(ctx, []*domain.CatalogEntry{entry}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	created := entry.CreatedAt

	entry.LevMas = "13+"
	entry.Deleted = true
	if err := s.SaveCatalogEntries(ctx, []*domain.CatalogEntry{entry}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, err := s.ListCatalogEntries(ctx)
	if err != nil {
		t.Fatalf("ListCatalogEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 (upsert, not insert)", len(entries))
	}
	got := entries[0]
	if got.LevMas != "13+" || !got.Deleted {
		t.Errorf("row not updated: lev_mas=%q deleted=%v", got.LevMas, got.Deleted)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("created_at changed on update")
	}
	if !got.UpdatedAt.After(created) {
		t.Error("updated_at not touched on update")
	}
}

func TestListActiveCatalogEntries_ExcludesDeleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SaveCatalogEntries(ctx, []*domain.CatalogEntry{
		{ID: "music-live", Title: "A", ReleaseDate: "20240101"},
		{ID: "music-gone", Title: "B", ReleaseDate: "20240201", Deleted: true},
	})
	if err != nil {
		t.Fatalf("SaveCatalogEntries: %v", err)
	}

	active, err := s.ListActiveCatalogEntries(ctx)
	if err != nil {
		t.Fatalf("ListActiveCatalogEntries: %v", err)
	}
	if len(active) != 1 || active[0].ID != "music-live" {
		t.Errorf("active = %v, want just music-live", active)
	}

	all, err := s.ListCatalogEntries(ctx)
	if err != nil {
		t.Fatalf("ListCatalogEntries: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want deleted row included", len(all))
	}
}

func TestListCatalogEntries_NewestReleaseFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SaveCatalogEntries(ctx, []*domain.CatalogEntry{
		{ID: "music-old", ReleaseDate: "20230101"},
		{ID: "music-new", ReleaseDate: "20250101"},
		{ID: "music-mid", ReleaseDate: "20240101"},
	})
	if err != nil {
		t.Fatalf("SaveCatalogEntries: %v", err)
	}

	entries, err := s.ListCatalogEntries(ctx)
	if err != nil {
		t.Fatalf("ListCatalogEntries: %v", err)
	}
	want := []string{"music-new", "music-mid", "music-old"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, id)
		}
	}
}
