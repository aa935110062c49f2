package core

import (
	"context"

	"go.uber.org/zap"
)

// Each behavioral factor contributes a fixed slice of the signal.
const behaviorFactorWeight = 0.25

// scoreBehavior evaluates sender-level circumstances rather than message
// content: first contact, odd send time and mass mailing. History lookups
// degrade to "new sender", which is the conservative direction.
func (s *AnalyzerService) scoreBehavior(ctx context.Context, email *ParsedEmail) BehaviorResult {
	var res BehaviorResult

	res.IsNewSender = true
	if s.history != nil {
		seen, err := s.history.Seen(ctx, email.From)
		if err != nil {
			s.logger.Debug("sender history lookup failed", zap.Error(err))
		} else {
			res.IsNewSender = !seen
		}
	}

	hour := email.ReceivedAt.Hour()
	res.OddTiming = hour >= 23 || hour <= 6

	res.ManyRecipients = len(email.To) > 10

	if res.IsNewSender {
		res.Score += behaviorFactorWeight
		res.Reasons = append(res.Reasons, "First-time sender")
	}
	if res.OddTiming {
		res.Score += behaviorFactorWeight
		res.Reasons = append(res.Reasons, "Sent at unusual hours")
	}
	if res.ManyRecipients {
		res.Score += behaviorFactorWeight
		res.Reasons = append(res.Reasons, "Mass mailing pattern")
	}
	return res
}
