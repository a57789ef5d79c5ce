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

// ChapterNormalizer derives Chapter rows from the distinct
// (chap_id, chapter name) pairs of the live mirror.
type ChapterNormalizer struct {
	store    Store
	logger   *slog.Logger
	notifier ops.Notifier
}

// NewChapterNormalizer creates the chapter stage.
func NewChapterNormalizer(store Store, logger *slog.Logger, notifier ops.Notifier) *ChapterNormalizer {
	return &ChapterNormalizer{store: store, logger: logger, notifier: notifier}
}

// Name implements Normalizer.
func (n *ChapterNormalizer) Name() string { return "chapters" }

// Normalize extracts chapters and returns the number created. Chapters are
// keyed by name: a pair whose name is unknown creates a row, a known name
// whose numeric id changed updates the id in place. Pairs with an
// unparsable numeric id are skipped with a warning.
func (n *ChapterNormalizer) Normalize(ctx context.Context) (int, error) {
	entries, err := n.store.ListActiveCatalogEntries(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load catalog mirror")
	}

	pairs := distinctPairs(entries, func(e *domain.CatalogEntry) (string, string) {
		return e.ChapterID, e.ChapterName
	})
	if len(pairs) == 0 {
		n.logger.Warn("no chapter pairs to normalize")
		return 0, nil
	}

	chapters, err := n.store.ListChapters(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load chapters")
	}
	byName := make(map[string]*domain.Chapter, len(chapters))
	for _, c := range chapters {
		byName[c.Name] = c
	}

	var changed []*domain.Chapter
	created := 0

	for _, p := range pairs {
		upstreamID, err := strconv.Atoi(p.id)
		if err != nil {
			n.logger.Warn("unparsable chapter id", "chap_id", p.id, "name", p.name)
			n.notifier.Notify(ctx, ops.SeverityWarn, fmt.Sprintf("unparsable chapter id %q for %q", p.id, p.name))
			continue
		}

		existing := byName[p.name]
		if existing == nil {
			chapterID, err := id.Generate(id.PrefixChapter)
			if err != nil {
				return 0, errors.Wrap(err, errors.CodeInternal, "generate chapter id")
			}
			chapter := &domain.Chapter{
				ID:         chapterID,
				UpstreamID: upstreamID,
				Name:       p.name,
			}
			byName[p.name] = chapter
			changed = append(changed, chapter)
			created++
			continue
		}

		if existing.UpstreamID != upstreamID {
			existing.UpstreamID = upstreamID
			changed = append(changed, existing)
		}
	}

	if err := n.store.SaveChapters(ctx, changed); err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "save chapters")
	}

	n.logger.Info("chapters normalized", "pairs", len(pairs), "created", created)
	return created, nil
}

type pair struct {
	id   string
	name string
}

// distinctPairs collects the distinct (id, name) pairs with both parts
// present, preserving first-seen order.
func distinctPairs(entries []*domain.CatalogEntry, extract func(*domain.CatalogEntry) (string, string)) []pair {
	seen := make(map[pair]bool)
	var pairs []pair
	for _, e := range entries {
		idStr, name := extract(e)
		if idStr == "" || name == "" {
			continue
		}
		p := pair{id: idStr, name: name}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	return pairs
}
