// Package normalize derives clean relational entities from the catalog mirror.
package normalize

import (
	"context"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

// Store is the persistence surface the normalizers need. Save methods
// upsert their whole argument list in one transaction; a failed save leaves
// the stage's tables untouched.
type Store interface {
	ListCatalogEntries(ctx context.Context) ([]*domain.CatalogEntry, error)
	ListActiveCatalogEntries(ctx context.Context) ([]*domain.CatalogEntry, error)

	ListChapters(ctx context.Context) ([]*domain.Chapter, error)
	SaveChapters(ctx context.Context, chapters []*domain.Chapter) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	SaveCategories(ctx context.Context, categories []*domain.Category) error

	ListSongs(ctx context.Context) ([]*domain.Song, error)
	SaveSongs(ctx context.Context, songs []*domain.Song) error

	ListCharts(ctx context.Context) ([]*domain.Chart, error)
	SaveCharts(ctx context.Context, charts []*domain.Chart) error
}
