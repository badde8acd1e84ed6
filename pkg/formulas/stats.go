package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64
// values. A single sample has no deviation, so fewer than two values
// yields zero rather than gonum's NaN.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CalculateReturns converts a value series to periodic percentage returns.
// Returns[i] = (Value[i] - Value[i-1]) / Value[i-1], zero when the previous
// value is zero.
func CalculateReturns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns[i-1] = (values[i] - values[i-1]) / values[i-1]
		}
	}

	return returns
}

// AnnualizedVolatility calculates annualized volatility from periodic returns.
// periodsPerYear is 365 for calendar-daily valuations, 12 for monthly. At
// least two returns are required; shorter series yield zero.
func AnnualizedVolatility(returns []float64, periodsPerYear int) float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return 0
	}

	return StdDev(returns) * math.Sqrt(float64(periodsPerYear))
}
