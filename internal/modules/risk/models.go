package risk

import "github.com/wealthlens/wealthlens/internal/domain"

// Question is one questionnaire item with its three answer options
type Question struct {
	ID      int64    `json:"id"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// Option is one selectable answer with its hidden score
type Option struct {
	Label string `json:"label"`
	Score int    `json:"-"`
}

// AssessmentRequest carries the chosen option index (1-3) per question id
type AssessmentRequest struct {
	Answers map[int64]int `json:"answers"`
}

// Assessment is the scored questionnaire outcome
type Assessment struct {
	Score       int                `json:"score"`
	MaxScore    int                `json:"max_score"`
	RiskProfile domain.RiskProfile `json:"risk_profile"`
}

// Score thresholds splitting the summed answers into tiers.
// Totals up to 10 read conservative, 11 to 18 moderate, 19 and above
// aggressive.
const (
	conservativeMax = 10
	moderateMax     = 18
)

// ProfileFor maps a summed questionnaire score to a risk tier
func ProfileFor(score int) domain.RiskProfile {
	switch {
	case score <= conservativeMax:
		return domain.RiskConservative
	case score <= moderateMax:
		return domain.RiskModerate
	default:
		return domain.RiskAggressive
	}
}
