package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthlens/wealthlens/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		a         Assumptions
		wantField string
	}{
		{
			name: "valid",
			a:    Assumptions{InitialAmount: 1000, MonthlyContribution: 100, TimeHorizonYears: 10, ExpectedReturnRate: 7, InflationRate: 3},
		},
		{
			name: "negative rates are valid",
			a:    Assumptions{TimeHorizonYears: 5, ExpectedReturnRate: -4, InflationRate: -1},
		},
		{
			name:      "horizon too short",
			a:         Assumptions{TimeHorizonYears: 0},
			wantField: "time_horizon_years",
		},
		{
			name:      "horizon too long",
			a:         Assumptions{TimeHorizonYears: 101},
			wantField: "time_horizon_years",
		},
		{
			name:      "negative initial",
			a:         Assumptions{InitialAmount: -1, TimeHorizonYears: 10},
			wantField: "initial_amount",
		},
		{
			name:      "negative contribution",
			a:         Assumptions{MonthlyContribution: -1, TimeHorizonYears: 10},
			wantField: "monthly_contribution",
		},
		{
			name:      "return rate at total loss",
			a:         Assumptions{TimeHorizonYears: 10, ExpectedReturnRate: -100},
			wantField: "expected_return_rate",
		},
		{
			name:      "return rate below total loss",
			a:         Assumptions{TimeHorizonYears: 10, ExpectedReturnRate: -150},
			wantField: "expected_return_rate",
		},
		{
			name:      "inflation below total loss",
			a:         Assumptions{TimeHorizonYears: 10, InflationRate: -101},
			wantField: "inflation_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.a)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestRun_BaselineScenario(t *testing.T) {
	results, err := Run(Assumptions{
		InitialAmount:       10000,
		MonthlyContribution: 500,
		TimeHorizonYears:    10,
		ExpectedReturnRate:  7,
		InflationRate:       3,
	})
	require.NoError(t, err)

	// 10000 + 500 * 120
	assert.Equal(t, 70000.0, results.Summary.TotalInvested)

	// A positive real return must beat the contributions.
	assert.Greater(t, results.Summary.FutureValueNominal, results.Summary.TotalInvested)

	// Inflation erodes purchasing power.
	assert.Less(t, results.Summary.FutureValueReal, results.Summary.FutureValueNominal)

	assert.InDelta(t, results.Summary.FutureValueNominal-results.Summary.TotalInvested,
		results.Summary.NominalGain, 0.01)
	assert.InDelta(t, results.Summary.FutureValueNominal-results.Summary.FutureValueReal,
		results.Summary.PurchasingPowerLoss, 0.01)
}

func TestRun_ChartShape(t *testing.T) {
	results, err := Run(Assumptions{
		InitialAmount:       1000,
		MonthlyContribution: 100,
		TimeHorizonYears:    3,
		ExpectedReturnRate:  5,
		InflationRate:       2,
	})
	require.NoError(t, err)

	// Month 0 through month 36 inclusive.
	require.Len(t, results.ChartData, 37)

	first := results.ChartData[0]
	assert.Equal(t, 0, first.Month)
	assert.Equal(t, 1000.0, first.NominalValue)
	assert.Equal(t, 1000.0, first.RealValue)
	assert.Equal(t, 1000.0, first.Invested)

	last := results.ChartData[36]
	assert.Equal(t, 36, last.Month)
	assert.Equal(t, 3, last.Year)
	assert.Equal(t, results.Summary.FutureValueNominal, last.NominalValue)
	assert.Equal(t, results.Summary.FutureValueReal, last.RealValue)

	// Invested grows linearly with the contribution stream.
	assert.Equal(t, 1000.0+100*36, last.Invested)
}

func TestRun_Deterministic(t *testing.T) {
	a := Assumptions{
		InitialAmount:       2500,
		MonthlyContribution: 75.5,
		TimeHorizonYears:    25,
		ExpectedReturnRate:  6.8,
		InflationRate:       2.4,
	}

	first, err := Run(a)
	require.NoError(t, err)
	second, err := Run(a)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_MonotonicInContribution(t *testing.T) {
	base := Assumptions{
		InitialAmount:      5000,
		TimeHorizonYears:   20,
		ExpectedReturnRate: 6,
		InflationRate:      2,
	}

	prev := -1.0
	for _, contribution := range []float64{0, 100, 250, 1000} {
		a := base
		a.MonthlyContribution = contribution
		results, err := Run(a)
		require.NoError(t, err)
		assert.Greater(t, results.Summary.FutureValueNominal, prev)
		prev = results.Summary.FutureValueNominal
	}
}

func TestRun_MonotonicInReturnRate(t *testing.T) {
	base := Assumptions{
		InitialAmount:       5000,
		MonthlyContribution: 200,
		TimeHorizonYears:    20,
		InflationRate:       2,
	}

	prev := -1.0
	for _, rate := range []float64{-2, 0, 3, 7, 12} {
		a := base
		a.ExpectedReturnRate = rate
		results, err := Run(a)
		require.NoError(t, err)
		assert.Greater(t, results.Summary.FutureValueNominal, prev)
		prev = results.Summary.FutureValueNominal
	}
}

func TestRun_GeometricMonthlyRate(t *testing.T) {
	// With no contributions, one year at annual rate r must land exactly
	// on initial*(1+r); the naive r/12 split would overshoot.
	results, err := Run(Assumptions{
		InitialAmount:      10000,
		TimeHorizonYears:   1,
		ExpectedReturnRate: 12,
	})
	require.NoError(t, err)

	assert.InDelta(t, 11200.0, results.Summary.FutureValueNominal, 0.01)
}

func TestRun_NegativeReturnShrinks(t *testing.T) {
	results, err := Run(Assumptions{
		InitialAmount:      10000,
		TimeHorizonYears:   10,
		ExpectedReturnRate: -5,
	})
	require.NoError(t, err)

	assert.Less(t, results.Summary.FutureValueNominal, 10000.0)
	assert.Greater(t, results.Summary.FutureValueNominal, 0.0)
}

func TestRun_ZeroInflationKeepsRealEqualNominal(t *testing.T) {
	results, err := Run(Assumptions{
		InitialAmount:       1000,
		MonthlyContribution: 50,
		TimeHorizonYears:    5,
		ExpectedReturnRate:  6,
	})
	require.NoError(t, err)

	assert.Equal(t, results.Summary.FutureValueNominal, results.Summary.FutureValueReal)
	assert.Equal(t, 0.0, results.Summary.PurchasingPowerLoss)
}

func TestRun_RejectsRatesAtOrBelowTotalLoss(t *testing.T) {
	_, err := Run(Assumptions{
		InitialAmount:    1000,
		TimeHorizonYears: 10,
		// Past -100% the geometric monthly rate has a negative base and
		// the whole trajectory would be NaN.
		ExpectedReturnRate: -150,
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expected_return_rate", vErr.Field)

	// Just above the boundary still computes finite values.
	results, err := Run(Assumptions{
		InitialAmount:      1000,
		TimeHorizonYears:   1,
		ExpectedReturnRate: -99.9,
	})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(results.Summary.FutureValueNominal))
	assert.Greater(t, results.Summary.FutureValueNominal, 0.0)
}

func TestDownsampleAnnual(t *testing.T) {
	results, err := Run(Assumptions{
		InitialAmount:       1000,
		MonthlyContribution: 100,
		TimeHorizonYears:    10,
		ExpectedReturnRate:  7,
		InflationRate:       3,
	})
	require.NoError(t, err)

	annual := DownsampleAnnual(results.ChartData)
	// Month 0 plus one point per year.
	require.Len(t, annual, 11)
	assert.Equal(t, 0, annual[0].Month)
	assert.Equal(t, 120, annual[10].Month)
	// The final point survives down-sampling untouched.
	assert.Equal(t, results.Summary.FutureValueNominal, annual[10].NominalValue)
}
