package goals

import (
	"math"
	"strings"
	"time"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// CalculateProgress computes the progress view of one goal against a
// caller-supplied current amount. The calculator itself never decides
// where the current amount comes from (linked investments, notional
// accumulator); that is the caller's responsibility.
func CalculateProgress(goal domain.Goal, currentAmount float64) Progress {
	percent := 0.0
	if goal.TargetAmount > 0 {
		percent = currentAmount / goal.TargetAmount * 100
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	monthsRemaining := 0
	if goal.MonthlyContribution > 0 && currentAmount < goal.TargetAmount {
		monthsRemaining = int(math.Ceil((goal.TargetAmount - currentAmount) / goal.MonthlyContribution))
	}

	p := Progress{
		ID:                  goal.ID,
		Name:                DisplayName(goal.GoalType),
		Current:             currentAmount,
		Target:              goal.TargetAmount,
		Percent:             math.Round(percent*10) / 10,
		MonthlyContribution: goal.MonthlyContribution,
		MonthsRemaining:     monthsRemaining,
		Status:              string(goal.Status),
	}
	if !goal.TargetDate.IsZero() {
		p.TargetDate = goal.TargetDate.Format("2006-01-02")
	}

	return p
}

// NotionalAccumulated estimates savings for a goal with no linked
// investments: monthly contribution times whole calendar months since
// creation (minimum one), capped at the target.
func NotionalAccumulated(goal domain.Goal, now time.Time) float64 {
	monthsElapsed := MonthsBetween(goal.CreatedAt, now)
	if monthsElapsed < 1 {
		monthsElapsed = 1
	}

	saved := goal.MonthlyContribution * float64(monthsElapsed)
	if saved > goal.TargetAmount {
		saved = goal.TargetAmount
	}

	return saved
}

// MonthsBetween counts whole calendar months from a to b, never negative
func MonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months < 0 {
		return 0
	}
	return months
}

// DisplayName turns a goal_type slug into a display label
// ("home" -> "Home", "early_retirement" -> "Early Retirement").
func DisplayName(goalType string) string {
	parts := strings.Split(goalType, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
