package ops

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"time"
)

const deliveryTimeout = 5 * time.Second

// SlackConfig holds per-severity incoming webhook URLs.
// An empty URL disables delivery for that severity.
type SlackConfig struct {
	InfoWebhookURL  string
	WarnWebhookURL  string
	ErrorWebhookURL string
}

// SlackNotifier posts notifications to Slack incoming webhooks.
// Delivery failures are logged and swallowed; a broken webhook must never
// fail an ingestion or normalization run.
type SlackNotifier struct {
	cfg        SlackConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier creates a Slack-backed notifier.
func NewSlackNotifier(cfg SlackConfig, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: deliveryTimeout,
		},
		logger: logger,
	}
}

// Notify implements Notifier.
func (n *SlackNotifier) Notify(ctx context.Context, severity Severity, message string) {
	url := n.webhookURL(severity)
	if url == "" {
		return
	}

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		n.logger.Debug("slack payload marshal failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		n.logger.Debug("slack request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Debug("slack delivery failed", "severity", severity.String(), "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Debug("slack delivery rejected", "severity", severity.String(), "status", resp.StatusCode)
	}
}

func (n *SlackNotifier) webhookURL(severity Severity) string {
	switch severity {
	case SeverityInfo:
		return n.cfg.InfoWebhookURL
	case SeverityWarn:
		return n.cfg.WarnWebhookURL
	case SeverityError:
		return n.cfg.ErrorWebhookURL
	default:
		return ""
	}
}
