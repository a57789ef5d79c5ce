// Package di provides dependency injection configuration for the museum
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/ongekimuseum/museum-server/internal/config"
	"github.com/ongekimuseum/museum-server/internal/di/providers"
	"github.com/ongekimuseum/museum-server/internal/feed"
	"github.com/ongekimuseum/museum-server/internal/logger"
	"github.com/ongekimuseum/museum-server/internal/ops"
	"github.com/ongekimuseum/museum-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Pipeline
	do.Provide(injector, providers.ProvideNotifier)
	do.Provide(injector, providers.ProvideFeedClient)
	do.Provide(injector, providers.ProvideIngestionService)
	do.Provide(injector, providers.ProvideNormalizationService)

	// Workers
	do.Provide(injector, providers.ProvideScheduler)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[ops.Notifier](injector)
	_ = do.MustInvoke[*feed.Client](injector)
	_ = do.MustInvoke[*service.IngestionService](injector)
	_ = do.MustInvoke[*service.NormalizationService](injector)
	_ = do.MustInvoke[*providers.SchedulerHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
