package providers

import (
	"github.com/samber/do/v2"

	"github.com/ongekimuseum/museum-server/internal/catalog"
	"github.com/ongekimuseum/museum-server/internal/config"
	"github.com/ongekimuseum/museum-server/internal/feed"
	"github.com/ongekimuseum/museum-server/internal/logger"
	"github.com/ongekimuseum/museum-server/internal/normalize"
	"github.com/ongekimuseum/museum-server/internal/ops"
	"github.com/ongekimuseum/museum-server/internal/service"
)

// ProvideNotifier provides the operational notification sink. Slack delivery
// is used when any webhook is configured, otherwise notifications are
// dropped.
func ProvideNotifier(i do.Injector) (ops.Notifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	slackCfg := ops.SlackConfig{
		InfoWebhookURL:  cfg.Ops.SlackInfoWebhookURL,
		WarnWebhookURL:  cfg.Ops.SlackWarnWebhookURL,
		ErrorWebhookURL: cfg.Ops.SlackErrorWebhookURL,
	}
	if slackCfg == (ops.SlackConfig{}) {
		log.Info("Operational notifications disabled, no webhooks configured")
		return ops.NewNoopNotifier(), nil
	}

	log.Info("Slack notifications enabled")
	return ops.NewSlackNotifier(slackCfg, log.Logger), nil
}

// ProvideFeedClient provides the catalog feed client.
func ProvideFeedClient(i do.Injector) (*feed.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return feed.NewClient(feed.Config{
		URLs:    cfg.Feed.URLs,
		Timeout: cfg.Feed.Timeout,
		Spacing: cfg.Feed.Spacing,
	}, log.Logger)
}

// ProvideIngestionService provides the feed ingestion service.
func ProvideIngestionService(i do.Injector) (*service.IngestionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*feed.Client](i)
	log := do.MustInvoke[*logger.Logger](i)
	notifier := do.MustInvoke[ops.Notifier](i)

	reconciler := catalog.NewReconciler(storeHandle.Store, catalog.DefaultCorrections(), log.Logger, notifier)

	return service.NewIngestionService(client, reconciler, log.Logger, notifier), nil
}

// ProvideNormalizationService provides the normalization cascade service.
func ProvideNormalizationService(i do.Injector) (*service.NormalizationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	notifier := do.MustInvoke[ops.Notifier](i)

	cascade := normalize.NewCascade(storeHandle.Store, log.Logger, notifier)

	return service.NewNormalizationService(cascade, log.Logger), nil
}
