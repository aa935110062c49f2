// Package core implements the risk-scoring pipeline: five independent
// signal scorers, an ensemble combiner and the action selector. All
// external collaborators enter through the interfaces in ports.go.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/urlscan"
)

// AnalyzerService orchestrates one full analysis. It holds no mutable
// state of its own, so a single instance is safe for concurrent use.
type AnalyzerService struct {
	classifier TextClassifier
	intel      URLIntel
	resolver   Resolver
	history    SenderHistory
	logger     *zap.Logger
}

// NewAnalyzerService wires the pipeline. Every collaborator may be nil;
// the corresponding checks then degrade to their neutral or conservative
// defaults instead of failing the analysis.
func NewAnalyzerService(
	classifier TextClassifier,
	intel URLIntel,
	resolver Resolver,
	history SenderHistory,
	logger *zap.Logger,
) *AnalyzerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzerService{
		classifier: classifier,
		intel:      intel,
		resolver:   resolver,
		history:    history,
		logger:     logger,
	}
}

// Analyze runs the complete pipeline over one normalized email and always
// returns a verdict. Collaborator failures degrade individual signals but
// never surface as an error; the error return is reserved for context
// cancellation.
func (s *AnalyzerService) Analyze(ctx context.Context, email *ParsedEmail) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res := &AnalysisResult{
		ProcessingID: uuid.NewString(),
		AnalyzedAt:   start,
	}

	// URLs are extracted once and shared: the content scorer needs them
	// for brand verification and the URL scorer inspects each of them.
	candidates := urlscan.Extract(email.Subject + " " + email.Body)

	res.Auth = s.scoreAuthentication(ctx, email)
	res.Content = s.scoreContent(ctx, email, candidates)
	res.URL = s.scoreURLs(ctx, email, candidates)
	res.Behavior = s.scoreBehavior(ctx, email)
	res.Sentiment = scoreSentiment(email)

	combine(res)
	selectActions(res)

	s.logger.Info("analysis complete",
		zap.String("processing_id", res.ProcessingID),
		zap.String("from", email.From),
		zap.String("classification", string(res.Classification)),
		zap.Float64("score", res.FinalScore),
		zap.Int("urls", len(res.URL.URLsFound)),
		zap.Int("suspicious_urls", res.URL.SuspiciousURLs),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// RecordSender marks the sender as seen after a completed analysis, so the
// first-time-sender signal reflects history as of analysis time. Callers
// decide whether a given intake path should update history at all.
func (s *AnalyzerService) RecordSender(ctx context.Context, email *ParsedEmail) {
	if s.history == nil {
		return
	}
	if err := s.history.MarkSeen(ctx, email.From, email.ReceivedAt); err != nil {
		s.logger.Warn("failed to record sender", zap.String("from", email.From), zap.Error(err))
	}
}
