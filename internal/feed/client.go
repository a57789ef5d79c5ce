// Package feed fetches the official song catalog feed.
package feed

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ongekimuseum/museum-server/internal/errors"
	"github.com/ongekimuseum/museum-server/internal/validation"
)

// Config holds feed client configuration.
type Config struct {
	URLs    []string      `json:"urls" validate:"required,min=1,dive,url"`
	Timeout time.Duration `json:"timeout"`
	Spacing time.Duration `json:"spacing"`
}

// Client fetches catalog records from the official feed.
// Requests are paced so consecutive fetches within one run never hit the
// upstream faster than the configured spacing.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a feed client for the configured URL list.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := validation.New().Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = 5 * time.Second
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		// First request goes through immediately, later ones are spaced.
		rateLimiter: rate.NewLimiter(rate.Every(cfg.Spacing), 1),
		logger:      logger,
	}, nil
}

// Sources returns the configured feed URLs in fetch order.
func (c *Client) Sources() []string {
	urls := make([]string, len(c.cfg.URLs))
	copy(urls, c.cfg.URLs)
	return urls
}

// Fetch downloads and decodes one feed URL.
// An unreachable feed or non-200 status is a TRANSPORT error; a payload
// that fails to decode or decodes to zero records is a PARSE error.
func (c *Client) Fetch(ctx context.Context, url string) ([]Record, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeTransport, "feed request pacing interrupted")
	}

	c.logger.Debug("fetching catalog feed", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeTransport, "create feed request for %s", url)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeTransport, "fetch feed %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Transportf("feed %s returned status %d", url, resp.StatusCode)
	}

	var records []Record
	if err := json.UnmarshalRead(resp.Body, &records); err != nil {
		return nil, errors.Wrapf(err, errors.CodeParse, "decode feed %s", url)
	}

	if len(records) == 0 {
		return nil, errors.Parsef("feed %s returned no records", url)
	}

	c.logger.Debug("catalog feed fetched", "url", url, "records", len(records))

	return records, nil
}
