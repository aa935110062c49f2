package core

// selectActions maps a classification to the ordered mail-flow directives
// downstream systems execute. The mapping is total: every classification
// yields at least one action.
func selectActions(res *AnalysisResult) {
	switch res.Classification {
	case ClassPhishing:
		res.Actions = []string{
			"Move to Quarantine",
			"Tag as High Risk - Phish Detected",
			"Notify Admin",
		}
		res.Quarantined = true
		res.AdminNotified = true
	case ClassSuspicious:
		res.Actions = []string{
			"Move to Spam",
			"Tag as Suspicious",
		}
		res.Quarantined = true
		res.AdminNotified = false
	default:
		res.Actions = []string{"Deliver to Inbox"}
		res.Quarantined = false
		res.AdminNotified = false
	}
}
