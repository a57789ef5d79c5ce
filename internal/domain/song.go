package domain

import "time"

// Song is a deduplicated, normalized song derived from the catalog mirror.
// (Title, Artist) is unique; CatalogEntryID points at the representative
// mirror row the song was seeded from.
type Song struct {
	Timestamps

	ID             string    `json:"id"`
	CatalogEntryID string    `json:"catalog_entry_id"`
	Title          string    `json:"title"`
	Artist         string    `json:"artist"`
	Copyright      string    `json:"copyright"`
	AddedAt        time.Time `json:"added_at"`
	Deleted        bool      `json:"is_deleted"`
}
