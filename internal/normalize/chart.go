package normalize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ongekimuseum/museum-server/internal/catalog"
	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/errors"
	"github.com/ongekimuseum/museum-server/internal/id"
	"github.com/ongekimuseum/museum-server/internal/ops"
)

// ChartNormalizer derives one Chart per present difficulty of every Song,
// joining the song back to its origin mirror row for level strings and
// flags.
type ChartNormalizer struct {
	store    Store
	logger   *slog.Logger
	notifier ops.Notifier
}

// NewChartNormalizer creates the chart stage.
func NewChartNormalizer(store Store, logger *slog.Logger, notifier ops.Notifier) *ChartNormalizer {
	return &ChartNormalizer{store: store, logger: logger, notifier: notifier}
}

// Name implements Normalizer.
func (n *ChartNormalizer) Name() string { return "charts" }

// Normalize upserts charts keyed by (song, difficulty) and returns the
// number created. Levels are stored fixed-point; an unparsable level skips
// that difficulty with a warning. The bonus flag and the mirror row's
// soft-delete state are copied onto the chart, so a vanished song's charts
// go dormant without being dropped.
func (n *ChartNormalizer) Normalize(ctx context.Context) (int, error) {
	songs, err := n.store.ListSongs(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load songs")
	}
	if len(songs) == 0 {
		n.logger.Warn("no songs to derive charts from")
		return 0, nil
	}

	// Soft-deleted mirror rows stay in the join so their charts follow.
	entries, err := n.store.ListCatalogEntries(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load catalog mirror")
	}
	entriesByID := make(map[string]*domain.CatalogEntry, len(entries))
	for _, e := range entries {
		entriesByID[e.ID] = e
	}

	charts, err := n.store.ListCharts(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load charts")
	}
	type chartKey struct {
		songID     string
		difficulty domain.Difficulty
	}
	byKey := make(map[chartKey]*domain.Chart, len(charts))
	for _, c := range charts {
		byKey[chartKey{c.SongID, c.Difficulty}] = c
	}

	var changed []*domain.Chart
	created := 0

	for _, song := range songs {
		entry := entriesByID[song.CatalogEntryID]
		if entry == nil {
			n.logger.Warn("song has no mirror row", "song_id", song.ID, "catalog_entry_id", song.CatalogEntryID)
			n.notifier.Notify(ctx, ops.SeverityWarn, fmt.Sprintf("song %s has no mirror row", song.ID))
			continue
		}

		bonus := entry.Bonus == "1"

		for _, difficulty := range domain.Difficulties {
			levelString := entry.Level(difficulty)
			if levelString == "" {
				continue
			}

			level, err := catalog.ParseLevel(levelString)
			if err != nil {
				n.logger.Warn("unparsable chart level",
					"song_id", song.ID, "difficulty", difficulty.String(), "level", levelString)
				n.notifier.Notify(ctx, ops.SeverityWarn, fmt.Sprintf(
					"unparsable level %q for song %s (%s)", levelString, song.ID, difficulty))
				continue
			}

			existing := byKey[chartKey{song.ID, difficulty}]
			if existing == nil {
				chartID, err := id.Generate(id.PrefixChart)
				if err != nil {
					return 0, errors.Wrap(err, errors.CodeInternal, "generate chart id")
				}
				chart := &domain.Chart{
					ID:         chartID,
					SongID:     song.ID,
					Difficulty: difficulty,
					Level:      level,
					Bonus:      bonus,
					Deleted:    entry.Deleted,
				}
				byKey[chartKey{song.ID, difficulty}] = chart
				changed = append(changed, chart)
				created++
				continue
			}

			dirty := false
			if existing.Level != level {
				existing.Level = level
				dirty = true
			}
			if existing.Bonus != bonus {
				existing.Bonus = bonus
				dirty = true
			}
			if existing.Deleted != entry.Deleted {
				existing.Deleted = entry.Deleted
				dirty = true
			}
			if dirty {
				changed = append(changed, existing)
			}
		}
	}

	if err := n.store.SaveCharts(ctx, changed); err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "save charts")
	}

	n.logger.Info("charts normalized", "songs", len(songs), "created", created)
	return created, nil
}
