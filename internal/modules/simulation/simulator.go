package simulation

import (
	"math"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// Horizon bounds accepted by Validate
const (
	MinHorizonYears = 1
	MaxHorizonYears = 100
)

// Validate rejects out-of-range assumptions before any computation runs.
// Negative return and inflation rates are valid down to (not including)
// -100%; they model pessimistic scenarios. At -100% and below the
// geometric monthly rate is undefined.
func Validate(a Assumptions) error {
	if a.InitialAmount < 0 {
		return domain.Invalid("initial_amount", "must not be negative")
	}
	if a.MonthlyContribution < 0 {
		return domain.Invalid("monthly_contribution", "must not be negative")
	}
	if a.TimeHorizonYears < MinHorizonYears || a.TimeHorizonYears > MaxHorizonYears {
		return domain.Invalid("time_horizon_years", "must be between 1 and 100")
	}
	if a.ExpectedReturnRate <= -100 {
		return domain.Invalid("expected_return_rate", "must be greater than -100")
	}
	if a.InflationRate <= -100 {
		return domain.Invalid("inflation_rate", "must be greater than -100")
	}
	return nil
}

// Run projects the contribution stream to its future value, month by
// month. The monthly rate is derived geometrically from the annual rate,
// (1+r)^(1/12)-1, so a century of compounding does not drift the way a
// naive rate/12 split would. Real values deflate each nominal value back
// to present-day purchasing power with annual inflation compounding.
//
// Compounding runs in float64; results are rounded to cents only at the
// output boundary. The function is pure: identical assumptions produce
// identical results.
func Run(a Assumptions) (Results, error) {
	if err := Validate(a); err != nil {
		return Results{}, err
	}

	months := a.TimeHorizonYears * 12
	monthlyRate := math.Pow(1+a.ExpectedReturnRate/100, 1.0/12) - 1
	inflationBase := 1 + a.InflationRate/100

	chart := make([]ChartPoint, 0, months+1)

	nominal := a.InitialAmount
	invested := a.InitialAmount

	chart = append(chart, ChartPoint{
		Month:        0,
		Year:         0,
		Invested:     round2(invested),
		NominalValue: round2(nominal),
		RealValue:    round2(nominal),
	})

	real := nominal
	for m := 1; m <= months; m++ {
		nominal = nominal*(1+monthlyRate) + a.MonthlyContribution
		invested += a.MonthlyContribution

		// Deflate: nominal / (1 + inflation)^(years passed)
		real = nominal / math.Pow(inflationBase, float64(m)/12)

		chart = append(chart, ChartPoint{
			Month:        m,
			Year:         m / 12,
			Invested:     round2(invested),
			NominalValue: round2(nominal),
			RealValue:    round2(real),
		})
	}

	summary := Summary{
		Years:               a.TimeHorizonYears,
		TotalInvested:       round2(invested),
		FutureValueNominal:  round2(nominal),
		FutureValueReal:     round2(real),
		NominalGain:         round2(nominal - invested),
		RealGain:            round2(real - invested),
		PurchasingPowerLoss: round2(nominal - real),
	}

	return Results{Summary: summary, ChartData: chart}, nil
}

// DownsampleAnnual reduces a monthly trajectory to one point per year
// (month 0 and every 12th month). The final month is always present
// because horizons are whole years.
func DownsampleAnnual(points []ChartPoint) []ChartPoint {
	annual := make([]ChartPoint, 0, len(points)/12+1)
	for _, p := range points {
		if p.Month%12 == 0 {
			annual = append(annual, p)
		}
	}
	return annual
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
