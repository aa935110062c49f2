// Package factory builds the configurable collaborators of the pipeline
// from application configuration.
package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/adapters/bedrock"
	"github.com/mailguard/email-guard/internal/adapters/gemini"
	"github.com/mailguard/email-guard/internal/adapters/openai"
	"github.com/mailguard/email-guard/internal/config"
	"github.com/mailguard/email-guard/internal/core"
)

// ClassifierFactory creates text classifiers
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates a text classifier based on the configuration.
// The "none" provider returns nil; the pipeline then runs on its
// rule-based fallback.
func (f *ClassifierFactory) CreateClassifier() (core.TextClassifier, error) {
	provider := f.cfg.GetClassifier().Provider

	switch provider {
	case "none", "":
		return nil, nil
	case "bedrock":
		classifier, err := bedrock.NewFactory(f.cfg, f.logger).CreateClassifier()
		if err != nil {
			return nil, err
		}
		return classifier, nil
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		classifier, err := gemini.NewClassifier(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			geminiCfg.MaxBodySize,
			f.logger,
		)
		if err != nil {
			return nil, err
		}
		return classifier, nil
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		return openai.NewClassifier(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			openaiCfg.MaxBodySize,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", provider)
	}
}
