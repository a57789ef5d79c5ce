package domain

// Category is a normalized song category derived from the catalog mirror,
// keyed by name like Chapter.
type Category struct {
	Timestamps

	ID         string `json:"id"`
	UpstreamID int    `json:"upstream_id"`
	Name       string `json:"name"`
}
