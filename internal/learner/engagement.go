package learner

import "strings"

const defaultEngagementScore = 0.1

var engagementScores = map[string]float64{
	"view":     0.1,
	"reaction": 0.3,
	"reply":    0.6,
	"renote":   0.7,
	"follow":   0.8,
	"bookmark": 0.5,
}

var highValueEngagements = map[string]struct{}{
	"reply":    {},
	"renote":   {},
	"follow":   {},
	"bookmark": {},
}

func normalizeEngagementType(engagementType string) string {
	return strings.ToLower(strings.TrimSpace(engagementType))
}

// EngagementScore maps an engagement type to its strength in [0,1], 0.1 for unknown types
func EngagementScore(engagementType string) float64 {
	if score, ok := engagementScores[normalizeEngagementType(engagementType)]; ok {
		return score
	}
	return defaultEngagementScore
}

// IsHighValue reports whether the engagement triggers immediate learning
func IsHighValue(engagementType string) bool {
	_, ok := highValueEngagements[normalizeEngagementType(engagementType)]
	return ok
}
