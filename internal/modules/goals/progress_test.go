package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wealthlens/wealthlens/internal/domain"
)

func TestCalculateProgress_PercentClamped(t *testing.T) {
	goal := domain.Goal{ID: 1, GoalType: "home", TargetAmount: 10000, Status: domain.GoalActive}

	tests := []struct {
		name        string
		current     float64
		wantPercent float64
	}{
		{"zero", 0, 0},
		{"partial", 2500, 25},
		{"exact", 10000, 100},
		{"overfunded", 25000, 100},
		{"negative current", -500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := CalculateProgress(goal, tt.current)
			assert.Equal(t, tt.wantPercent, p.Percent)
			assert.GreaterOrEqual(t, p.Percent, 0.0)
			assert.LessOrEqual(t, p.Percent, 100.0)
		})
	}
}

func TestCalculateProgress_ZeroTarget(t *testing.T) {
	goal := domain.Goal{GoalType: "custom", TargetAmount: 0}

	p := CalculateProgress(goal, 5000)
	assert.Equal(t, 0.0, p.Percent)
}

func TestCalculateProgress_MonthsRemaining(t *testing.T) {
	goal := domain.Goal{
		GoalType:            "education",
		TargetAmount:        50000,
		MonthlyContribution: 500,
	}

	p := CalculateProgress(goal, 10000)
	// ceil(40000 / 500) = 80
	assert.Equal(t, 80, p.MonthsRemaining)
}

func TestCalculateProgress_MonthsRemainingRoundsUp(t *testing.T) {
	goal := domain.Goal{
		GoalType:            "home",
		TargetAmount:        1000,
		MonthlyContribution: 300,
	}

	p := CalculateProgress(goal, 0)
	// 1000/300 = 3.33 months, a partial month still counts
	assert.Equal(t, 4, p.MonthsRemaining)
}

func TestCalculateProgress_MonthsRemainingZeroCases(t *testing.T) {
	// Goal already met
	met := domain.Goal{GoalType: "home", TargetAmount: 1000, MonthlyContribution: 100}
	assert.Equal(t, 0, CalculateProgress(met, 1000).MonthsRemaining)

	// No contribution pace defined
	noPace := domain.Goal{GoalType: "home", TargetAmount: 1000, MonthlyContribution: 0}
	assert.Equal(t, 0, CalculateProgress(noPace, 100).MonthsRemaining)
}

func TestNotionalAccumulated(t *testing.T) {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	goal := domain.Goal{
		GoalType:            "retirement",
		TargetAmount:        100000,
		MonthlyContribution: 1000,
		CreatedAt:           created,
	}

	// 5 whole months later
	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 5000.0, NotionalAccumulated(goal, now))

	// Same month counts as one
	assert.Equal(t, 1000.0, NotionalAccumulated(goal, created))

	// Capped at target
	far := time.Date(2040, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 100000.0, NotionalAccumulated(goal, far))
}

func TestMonthsBetween(t *testing.T) {
	a := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, MonthsBetween(a, a))
	assert.Equal(t, 3, MonthsBetween(a, time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 12, MonthsBetween(a, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	// Never negative
	assert.Equal(t, 0, MonthsBetween(a, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"home", "Home"},
		{"early_retirement", "Early Retirement"},
		{"custom", "Custom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.input))
	}
}
