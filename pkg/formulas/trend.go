package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateSMA calculates a simple moving average over a value series,
// used for the dashboard growth-chart trend overlay. The first window-1
// entries are NaN in talib's output; they are returned as zeros so the
// series stays JSON-encodable and aligned with its input.
func CalculateSMA(values []float64, window int) []float64 {
	if window < 2 || len(values) < window {
		return nil
	}

	sma := talib.Sma(values, window)
	out := make([]float64, len(sma))
	for i, v := range sma {
		if isNaN(v) {
			continue
		}
		out[i] = v
	}

	return out
}

func isNaN(f float64) bool {
	return f != f
}
