// Package di assembles the daemon's object graph.
package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/adapters/intake"
	"github.com/mailguard/email-guard/internal/config"
	"github.com/mailguard/email-guard/internal/core"
	"github.com/mailguard/email-guard/internal/factory"
	"github.com/mailguard/email-guard/internal/logging"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIntelFactory); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.TextClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register sender history
	if err := container.Provide(func(f *factory.HistoryFactory) (core.SenderHistory, error) {
		return f.CreateHistoryStore()
	}); err != nil {
		return nil, err
	}

	// Register resolver and intel aggregator
	if err := container.Provide(func(f *factory.IntelFactory) core.Resolver {
		return f.CreateResolver()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.IntelFactory, resolver core.Resolver) core.URLIntel {
		return f.CreateAggregator(resolver)
	}); err != nil {
		return nil, err
	}

	// Register analyzer service
	if err := container.Provide(core.NewAnalyzerService); err != nil {
		return nil, err
	}

	// Register intake server
	if err := container.Provide(func(
		service *core.AnalyzerService,
		cfg *config.Config,
		logger *zap.Logger,
	) *intake.Server {
		serverCfg := cfg.GetServer()
		return intake.NewServer(
			service,
			logger,
			serverCfg.ListenAddress,
			serverCfg.BlockPhishing,
			serverCfg.StatusHeader,
			serverCfg.ScoreHeader,
			serverCfg.ReasonHeader,
			serverCfg.RelayAddress,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
