package normalize

import (
	"context"
	"io"
	"log/slog"

	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/errors"
)

// fakeStore is an in-memory Store for normalizer tests. Individual List
// methods can be failed to exercise stage error handling.
type fakeStore struct {
	entries    []*domain.CatalogEntry
	chapters   map[string]*domain.Chapter
	categories map[string]*domain.Category
	songs      map[string]*domain.Song
	charts     map[string]*domain.Chart

	failChapters bool
	failSongs    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		chapters:   make(map[string]*domain.Chapter),
		categories: make(map[string]*domain.Category),
		songs:      make(map[string]*domain.Song),
		charts:     make(map[string]*domain.Chart),
	}
}

func (f *fakeStore) ListCatalogEntries(context.Context) ([]*domain.CatalogEntry, error) {
	return f.entries, nil
}

func (f *fakeStore) ListActiveCatalogEntries(context.Context) ([]*domain.CatalogEntry, error) {
	var out []*domain.CatalogEntry
	for _, e := range f.entries {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListChapters(context.Context) ([]*domain.Chapter, error) {
	if f.failChapters {
		return nil, errors.Persistence("chapters unavailable")
	}
	var out []*domain.Chapter
	for _, c := range f.chapters {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) SaveChapters(_ context.Context, chapters []*domain.Chapter) error {
	for _, c := range chapters {
		f.chapters[c.ID] = c
	}
	return nil
}

func (f *fakeStore) ListCategories(context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) SaveCategories(_ context.Context, categories []*domain.Category) error {
	for _, c := range categories {
		f.categories[c.ID] = c
	}
	return nil
}

func (f *fakeStore) ListSongs(context.Context) ([]*domain.Song, error) {
	if f.failSongs {
		return nil, errors.Persistence("songs unavailable")
	}
	var out []*domain.Song
	for _, s := range f.songs {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) SaveSongs(_ context.Context, songs []*domain.Song) error {
	for _, s := range songs {
		f.songs[s.ID] = s
	}
	return nil
}

func (f *fakeStore) ListCharts(context.Context) ([]*domain.Chart, error) {
	var out []*domain.Chart
	for _, c := range f.charts {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) SaveCharts(_ context.Context, charts []*domain.Chart) error {
	for _, c := range charts {
		f.charts[c.ID] = c
	}
	return nil
}

func (f *fakeStore) chapterByName(name string) *domain.Chapter {
	for _, c := range f.chapters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (f *fakeStore) songByTitle(title string) *domain.Song {
	for _, s := range f.songs {
		if s.Title == title {
			return s
		}
	}
	return nil
}

func (f *fakeStore) chartsForSong(songID string) []*domain.Chart {
	var out []*domain.Chart
	for _, c := range f.charts {
		if c.SongID == songID {
			out = append(out, c)
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
