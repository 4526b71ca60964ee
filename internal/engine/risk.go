package engine

import (
	"github.com/samruben96/documine-sub012/internal/model"
)

// severityWeights is the fixed per-finding contribution to the risk score.
var severityWeights = map[model.Severity]int{
	model.SeverityHigh:   15,
	model.SeverityMedium: 8,
	model.SeverityLow:    3,
}

// Score reduces all findings to a 0-100 risk score. Pure function of its
// arguments; adding a finding never lowers the score.
func Score(gaps []model.GapWarning, conflicts []model.ConflictWarning) int {
	score := 0
	for i := range gaps {
		score += severityWeights[gaps[i].Severity]
	}
	for i := range conflicts {
		score += severityWeights[conflicts[i].Severity]
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Level buckets a risk score: 0-33 low, 34-66 medium, 67-100 high.
func Level(score int) model.RiskLevel {
	switch {
	case score <= 33:
		return model.RiskLow
	case score <= 66:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}
