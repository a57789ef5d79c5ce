package domain

// Chapter is a normalized story chapter derived from the catalog mirror.
// UpstreamID is the numeric chapter id the feed carries; Name is the unique
// natural key the normalizer matches on.
type Chapter struct {
	Timestamps

	ID         string `json:"id"`
	UpstreamID int    `json:"upstream_id"`
	Name       string `json:"name"`
}
