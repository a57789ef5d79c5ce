package normalize

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/errors"
	"github.com/ongekimuseum/museum-server/internal/id"
	"github.com/ongekimuseum/museum-server/internal/ops"
)

// jst is the zone songs are timestamped in. The upstream catalog publishes
// at 07:00 Tokyo time.
var jst = time.FixedZone("JST", 9*60*60)

// SongNormalizer dedupes the live mirror into Song rows keyed by
// (title, artist).
type SongNormalizer struct {
	store    Store
	logger   *slog.Logger
	notifier ops.Notifier
}

// NewSongNormalizer creates the song stage.
func NewSongNormalizer(store Store, logger *slog.Logger, notifier ops.Notifier) *SongNormalizer {
	return &SongNormalizer{store: store, logger: logger, notifier: notifier}
}

// Name implements Normalizer.
func (n *SongNormalizer) Name() string { return "songs" }

// Normalize derives songs from live mirror rows that carry a title, an
// artist, and an external id. Rows are ordered by (release date, external
// id) and grouped by (title, artist); the earliest row of each group is
// the representative that seeds or refreshes the Song. Returns the number
// of rows created or updated.
func (n *SongNormalizer) Normalize(ctx context.Context) (int, error) {
	entries, err := n.store.ListActiveCatalogEntries(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load catalog mirror")
	}

	eligible := make([]*domain.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Title != "" && e.Artist != "" && e.ExternalID != "" {
			eligible = append(eligible, e)
		}
	}
	if len(eligible) == 0 {
		n.logger.Warn("no mirror rows eligible for song normalization")
		return 0, nil
	}

	slices.SortStableFunc(eligible, func(a, b *domain.CatalogEntry) int {
		if c := strings.Compare(a.ReleaseDate, b.ReleaseDate); c != 0 {
			return c
		}
		return strings.Compare(a.ExternalID, b.ExternalID)
	})

	// Earliest row per (title, artist) represents the song.
	representatives := make([]*domain.CatalogEntry, 0, len(eligible))
	seen := make(map[string]bool, len(eligible))
	for _, e := range eligible {
		key := songKey(e.Title, e.Artist)
		if !seen[key] {
			seen[key] = true
			representatives = append(representatives, e)
		}
	}

	songs, err := n.store.ListSongs(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "load songs")
	}
	byKey := make(map[string]*domain.Song, len(songs))
	for _, s := range songs {
		byKey[songKey(s.Title, s.Artist)] = s
	}

	var changed []*domain.Song
	created, updated := 0, 0

	for _, rep := range representatives {
		addedAt := addedAtFromReleaseDate(rep.ReleaseDate)

		existing := byKey[songKey(rep.Title, rep.Artist)]
		if existing == nil {
			songID, err := id.Generate(id.PrefixSong)
			if err != nil {
				return 0, errors.Wrap(err, errors.CodeInternal, "generate song id")
			}
			song := &domain.Song{
				ID:             songID,
				CatalogEntryID: rep.ID,
				Title:          rep.Title,
				Artist:         rep.Artist,
				Copyright:      rep.Copyright,
				AddedAt:        addedAt,
			}
			changed = append(changed, song)
			created++
			n.logger.Debug("song created", "title", song.Title, "artist", song.Artist)
			continue
		}

		dirty := false
		if existing.CatalogEntryID != rep.ID {
			existing.CatalogEntryID = rep.ID
			dirty = true
		}
		if existing.Copyright != rep.Copyright {
			existing.Copyright = rep.Copyright
			dirty = true
		}
		if !existing.AddedAt.Equal(addedAt) {
			existing.AddedAt = addedAt
			dirty = true
		}
		if dirty {
			changed = append(changed, existing)
			updated++
			n.logger.Debug("song updated", "title", existing.Title, "artist", existing.Artist)
		}
	}

	if err := n.store.SaveSongs(ctx, changed); err != nil {
		return 0, errors.Wrap(err, errors.CodePersistence, "save songs")
	}

	n.logger.Info("songs normalized", "representatives", len(representatives), "created", created, "updated", updated)
	return created + updated, nil
}

func songKey(title, artist string) string {
	return title + "\x00" + artist
}

// addedAtFromReleaseDate returns 07:00 JST on the 8-digit yyyyMMdd release
// date, or the current time when the date is absent or malformed.
func addedAtFromReleaseDate(date string) time.Time {
	if len(date) != 8 {
		return time.Now().In(jst)
	}
	parsed, err := time.ParseInLocation("20060102", date, jst)
	if err != nil {
		return time.Now().In(jst)
	}
	return parsed.Add(7 * time.Hour)
}
