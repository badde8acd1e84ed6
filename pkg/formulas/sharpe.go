package formulas

import "math"

// CalculateSharpeRatio calculates the annualized Sharpe ratio.
//
// Sharpe Formula:
//
//	Sharpe = (Mean Return - Periodic Risk-free Rate) / Std Dev of Returns
//	Annualized: Sharpe × sqrt(periodsPerYear)
//
// riskFreeRate is the annual rate as a decimal (0.02 for 2%). Returns nil
// when the series is too short or flat.
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return nil
	}

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (Mean(returns) - periodicRiskFree) / stdDev
	annualized := sharpe * math.Sqrt(float64(periodsPerYear))

	return &annualized
}
