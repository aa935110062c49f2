package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/adapters/history"
	"github.com/mailguard/email-guard/internal/config"
	"github.com/mailguard/email-guard/internal/core"
)

// HistoryFactory creates sender-history stores based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistoryStore creates a sender-history store based on the configuration
func (f *HistoryFactory) CreateHistoryStore() (core.SenderHistory, error) {
	historyCfg := f.cfg.GetHistory()

	switch historyCfg.Type {
	case "memory":
		return history.NewMemoryStore(), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(historyCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		store, err := history.NewSQLiteStore(historyCfg.SQLitePath, f.logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "mysql":
		store, err := history.NewMySQLStore(historyCfg.MySQLDSN, f.logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		store, err := history.NewRedisStore(
			historyCfg.RedisAddr,
			historyCfg.RedisPassword,
			historyCfg.RedisDB,
			historyCfg.RedisTTL,
			f.logger,
		)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported history type: %s", historyCfg.Type)
	}
}
