package recommendations

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// DefaultDriftThreshold is the allocation drift, in percent points,
// tolerated before a rebalancing suggestion fires.
const DefaultDriftThreshold = 5.0

// Recommend compares the current asset-category weights of the given
// holdings against a target model and emits rebalancing suggestions,
// ordered by descending deviation so the most urgent action surfaces
// first. A portfolio within the drift threshold of every target reports
// an empty suggestion list; an empty portfolio gets a single "Invest"
// prompt instead.
func Recommend(investments []domain.Investment, profile domain.RiskProfile, model AllocationModel, threshold float64) Recommendation {
	currentValue := make(map[domain.AssetCategory]float64, len(model))
	for category := range model {
		currentValue[category] = 0
	}

	total := 0.0
	for _, inv := range investments {
		total += inv.CurrentValue
		category := domain.CategoryOf(inv.AssetType)
		if _, ok := currentValue[category]; ok {
			currentValue[category] += inv.CurrentValue
		}
	}

	currentPct := make(map[string]float64, len(model))
	targetPct := make(map[string]float64, len(model))
	for category, target := range model {
		targetPct[string(category)] = target
		pct := 0.0
		if total > 0 {
			pct = round2(currentValue[category] / total * 100)
		}
		currentPct[string(category)] = pct
	}

	rec := Recommendation{
		RiskProfile:         string(profile),
		TargetAllocation:    targetPct,
		CurrentAllocation:   currentPct,
		TotalPortfolioValue: total,
		Suggestions:         []Suggestion{},
	}

	if total <= 0 {
		rec.Suggestions = append(rec.Suggestions, Suggestion{
			Category:  "General",
			Action:    "Invest",
			Message:   "Start investing to build your portfolio according to the recommended allocation.",
			Reasoning: "Portfolio is empty.",
		})
		return rec
	}

	for category, target := range model {
		current := currentPct[string(category)]
		delta := current - target

		if math.Abs(delta) <= threshold {
			continue
		}

		action := "Increase"
		if delta > 0 {
			action = "Decrease"
		}

		targetAmount := total * target / 100
		changeAmount := math.Abs(targetAmount - currentValue[category])

		rec.Suggestions = append(rec.Suggestions, Suggestion{
			Category: string(category),
			Action:   action,
			Delta:    round2(delta),
			Message: fmt.Sprintf("%s %s exposure by %.1f%% (approx. %.2f)",
				action, title(string(category)), math.Abs(delta), changeAmount),
			Reasoning: fmt.Sprintf("Current: %.2f%%, Target: %.2f%%, Amount to move: %.2f",
				current, target, changeAmount),
		})
	}

	// Largest deviation first; ties break alphabetically for stable output.
	sort.Slice(rec.Suggestions, func(i, j int) bool {
		di, dj := math.Abs(rec.Suggestions[i].Delta), math.Abs(rec.Suggestions[j].Delta)
		if di != dj {
			return di > dj
		}
		return rec.Suggestions[i].Category < rec.Suggestions[j].Category
	})

	return rec
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
