package recommendations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthlens/wealthlens/internal/domain"
)

func TestStrategies_WeightsSumTo100(t *testing.T) {
	for profile, model := range Strategies {
		sum := 0.0
		for _, w := range model {
			sum += w
		}
		assert.InDelta(t, 100.0, sum, 1e-9, "weights for %s should sum to 100", profile)
	}
}

func TestModelFor_FallsBackToModerate(t *testing.T) {
	profile, model := ModelFor(domain.RiskProfile("unknown"))
	assert.Equal(t, domain.RiskModerate, profile)
	assert.Equal(t, Strategies[domain.RiskModerate], model)

	profile, model = ModelFor(domain.RiskAggressive)
	assert.Equal(t, domain.RiskAggressive, profile)
	assert.Equal(t, 80.0, model[domain.CategoryEquity])
}

func TestRecommend_OverweightEquity(t *testing.T) {
	investments := []domain.Investment{
		{Symbol: "VWCE", AssetType: domain.AssetETF, CurrentValue: 8000},
		{Symbol: "AGGH", AssetType: domain.AssetBond, CurrentValue: 2000},
	}

	// Two-category model keeps the drift arithmetic easy to follow.
	model := AllocationModel{
		domain.CategoryEquity: 60,
		domain.CategoryDebt:   40,
	}

	rec := Recommend(investments, domain.RiskModerate, model, DefaultDriftThreshold)

	assert.Equal(t, 10000.0, rec.TotalPortfolioValue)
	assert.Equal(t, 80.0, rec.CurrentAllocation["equity"])
	assert.Equal(t, 20.0, rec.CurrentAllocation["debt"])

	require.Len(t, rec.Suggestions, 2)

	// Both categories drift by 20 points; the alphabetical tiebreak
	// puts debt first.
	first := rec.Suggestions[0]
	assert.Equal(t, "debt", first.Category)
	assert.Equal(t, "Increase", first.Action)
	assert.Equal(t, -20.0, first.Delta)

	second := rec.Suggestions[1]
	assert.Equal(t, "equity", second.Category)
	assert.Equal(t, "Decrease", second.Action)
	assert.Equal(t, 20.0, second.Delta)
	assert.Contains(t, second.Message, "Decrease Equity exposure by 20.0%")
	assert.Contains(t, second.Reasoning, "Current: 80.00%, Target: 60.00%")
}

func TestRecommend_RankedByDeviation(t *testing.T) {
	investments := []domain.Investment{
		{Symbol: "VWCE", AssetType: domain.AssetETF, CurrentValue: 9000},
		{Symbol: "AGGH", AssetType: domain.AssetBond, CurrentValue: 500},
		{Symbol: "CASH", AssetType: domain.AssetCash, CurrentValue: 500},
	}

	_, model := ModelFor(domain.RiskModerate)
	rec := Recommend(investments, domain.RiskModerate, model, DefaultDriftThreshold)

	// equity 90 vs 50 (+40), debt 5 vs 40 (-35); cash 5 vs 10 sits
	// exactly at the threshold and is excluded.
	require.Len(t, rec.Suggestions, 2)
	assert.Equal(t, "equity", rec.Suggestions[0].Category)
	assert.Equal(t, "debt", rec.Suggestions[1].Category)
}

func TestRecommend_WithinThresholdNoSuggestions(t *testing.T) {
	investments := []domain.Investment{
		{Symbol: "VWCE", AssetType: domain.AssetETF, CurrentValue: 5200},
		{Symbol: "AGGH", AssetType: domain.AssetBond, CurrentValue: 3900},
		{Symbol: "CASH", AssetType: domain.AssetCash, CurrentValue: 900},
	}

	_, model := ModelFor(domain.RiskModerate)
	rec := Recommend(investments, domain.RiskModerate, model, DefaultDriftThreshold)

	assert.Empty(t, rec.Suggestions)
	assert.Equal(t, 52.0, rec.CurrentAllocation["equity"])
}

func TestRecommend_EmptyPortfolio(t *testing.T) {
	_, model := ModelFor(domain.RiskConservative)
	rec := Recommend(nil, domain.RiskConservative, model, DefaultDriftThreshold)

	assert.Equal(t, 0.0, rec.TotalPortfolioValue)
	assert.Equal(t, 0.0, rec.CurrentAllocation["equity"])
	assert.Equal(t, 0.0, rec.CurrentAllocation["debt"])
	assert.Equal(t, 0.0, rec.CurrentAllocation["cash"])

	require.Len(t, rec.Suggestions, 1)
	assert.Equal(t, "Invest", rec.Suggestions[0].Action)
	assert.Equal(t, "Portfolio is empty.", rec.Suggestions[0].Reasoning)
}

func TestRecommend_AssetTypeGrouping(t *testing.T) {
	investments := []domain.Investment{
		{Symbol: "AAPL", AssetType: domain.AssetStock, CurrentValue: 1000},
		{Symbol: "VWCE", AssetType: domain.AssetETF, CurrentValue: 1000},
		{Symbol: "FUND", AssetType: domain.AssetMutualFund, CurrentValue: 1000},
		{Symbol: "AGGH", AssetType: domain.AssetBond, CurrentValue: 600},
		{Symbol: "CASH", AssetType: domain.AssetCash, CurrentValue: 400},
	}

	_, model := ModelFor(domain.RiskModerate)
	rec := Recommend(investments, domain.RiskModerate, model, DefaultDriftThreshold)

	// stock + etf + mutual_fund all land in equity.
	assert.Equal(t, 75.0, rec.CurrentAllocation["equity"])
	assert.Equal(t, 15.0, rec.CurrentAllocation["debt"])
	assert.Equal(t, 10.0, rec.CurrentAllocation["cash"])
}
