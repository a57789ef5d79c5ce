package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/errors"
	"github.com/ongekimuseum/museum-server/internal/id"
	"github.com/ongekimuseum/museum-server/internal/ops"
)

// CategoryNormalizer derives Category rows from the distinct
// (category_id, category name) pairs of the live mirror. Same keying rules
// as chapters.
type CategoryNormalizer struct {
	store    Store
	logger   *slog.Logger
	notifier ops.Notifier
}

// NewCategoryNormalizer creates the category stage.
func NewCategoryNormalizer(store Store, logger *slog.Logger, notifier ops.Notifier) *CategoryNormalizer {
	return &CategoryNormalizer{store: store, logger: logger, notifier: notifier}
}

// Name implements Normalizer.
func (n *CategoryNormalizer) Name() string { return "categories" }

// Normalize extracts categories and returns the number created.
func (n *CategoryNormalizer) Normalize(ctx context.Context) (int, error) {
	entries, err := n.store.ListActiveCatalogEntries(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load catalog mirror")
	}

	pairs := distinctPairs(entries, func(e *domain.CatalogEntry) (string, string) {
		return e.CategoryID, e.Category
	})
	if len(pairs) == 0 {
		n.logger.Warn("no category pairs to normalize")
		return 0, nil
	}

	categories, err := n.store.ListCategories(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load categories")
	}
	byName := make(map[string]*domain.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}

	var changed []*domain.Category
	created := 0

	for _, p := range pairs {
		upstreamID, err := strconv.Atoi(p.id)
		if err != nil {
			n.logger.Warn("unparsable category id", "category_id", p.id, "name", p.name)
			n.notifier.Notify(ctx, ops.SeverityWarn, fmt.Sprintf("unparsable category id %q for %q", p.id, p.name))
			continue
		}

		existing := byName[p.name]
		if existing == nil {
			categoryID, err := id.Generate(id.PrefixCategory)
			if err != nil {
				return 0, errors.Wrap(err, errors.CodeInternal, "generate category id")
			}
			category := &domain.Category{
				ID:         categoryID,
				UpstreamID: upstreamID,
				Name:       p.name,
			}
			byName[p.name] = category
			changed = append(changed, category)
			created++
			continue
		}

		if existing.UpstreamID != upstreamID {
			existing.UpstreamID = upstreamID
			changed = append(changed, existing)
		}
	}

	if err := n.store.SaveCategories(ctx, changed); err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "save categories")
	}

	n.logger.Info("categories normalized", "pairs", len(pairs), "created", created)
	return created, nil
}
