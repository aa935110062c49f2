package factory

import (
	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/adapters/dns"
	"github.com/mailguard/email-guard/internal/adapters/phishtank"
	"github.com/mailguard/email-guard/internal/adapters/safebrowsing"
	"github.com/mailguard/email-guard/internal/adapters/tlscheck"
	"github.com/mailguard/email-guard/internal/adapters/whois"
	"github.com/mailguard/email-guard/internal/config"
	"github.com/mailguard/email-guard/internal/core"
	"github.com/mailguard/email-guard/internal/intel"
)

// IntelFactory assembles the external threat-intelligence aggregator
type IntelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewIntelFactory creates a new intel factory
func NewIntelFactory(cfg *config.Config, logger *zap.Logger) *IntelFactory {
	return &IntelFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAggregator wires the configured external sources into one
// aggregator. Sources without credentials are still constructed; they
// degrade per-check rather than being absent.
func (f *IntelFactory) CreateAggregator(resolver core.Resolver) core.URLIntel {
	intelCfg := f.cfg.GetIntel()

	var threatList core.ThreatList
	if intelCfg.SafeBrowsingAPIKey != "" {
		threatList = safebrowsing.NewClient(intelCfg.SafeBrowsingAPIKey, intelCfg.CheckTimeout, f.logger)
	}

	phishDB := phishtank.NewClient(intelCfg.PhishTankAppKey, intelCfg.CheckTimeout, f.logger)

	var whoisClient core.WhoisClient
	if intelCfg.WhoisEnabled {
		whoisClient = whois.NewClient(intelCfg.CheckTimeout)
	}

	var certInspector core.CertInspector
	if intelCfg.CertCheckEnabled {
		certInspector = tlscheck.NewInspector(intelCfg.CheckTimeout)
	}

	return intel.NewAggregator(
		threatList,
		phishDB,
		whoisClient,
		certInspector,
		resolver,
		intelCfg.CheckTimeout,
		f.logger,
	)
}

// CreateResolver returns the shared DNS resolver used by both the
// authentication scorer and the intel aggregator.
func (f *IntelFactory) CreateResolver() core.Resolver {
	return dns.NewResolver()
}
