package catalog

import (
	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/feed"
)

// duplicateLunaticTitle is the one known song with two distinct Lunatic
// rows in the feed. The default identity key collapses them, so matching
// is additionally constrained by the Lunatic level string.
const duplicateLunaticTitle = "Perfect Shining!!"

// ResolveIdentity finds the mirror row a normalized feed record refers to,
// or nil if the record is new.
//
// The identity key is (title, artist, lunatic, bonus), with absent values
// matching absent values. For the known duplicate-title Lunatic pair, the
// record whose lev_lnt is "0" only matches rows whose Expert level is also
// "0"; the other record (presumably the remaster) only matches rows whose
// Lunatic level is not "0". Without the carve-out both records would settle
// on one row and merge.
func ResolveIdentity(rec feed.Record, entries []*domain.CatalogEntry) *domain.CatalogEntry {
	special := rec.Title == duplicateLunaticTitle && rec.Lunatic == "1"

	for _, e := range entries {
		if e.Title != rec.Title || e.Artist != rec.Artist ||
			e.Lunatic != rec.Lunatic || e.Bonus != rec.Bonus {
			continue
		}

		if special {
			if rec.LevLnt == "0" {
				if e.LevExc != "0" {
					continue
				}
			} else if e.LevLnt == "0" {
				continue
			}
		}

		return e
	}

	return nil
}
