package history

// Period identifies a dashboard time window
type Period string

const (
	Period1M  Period = "1M"
	Period3M  Period = "3M"
	Period6M  Period = "6M"
	Period1Y  Period = "1Y"
	PeriodAll Period = "ALL"
)

// periodDays maps a period to its fixed calendar-day window
var periodDays = map[Period]int{
	Period1M: 30,
	Period3M: 90,
	Period6M: 180,
	Period1Y: 365,
}

// ParsePeriod normalizes a period query parameter. Unknown values fall
// back to 1M, the dashboard's default window.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case Period3M, Period6M, Period1Y, PeriodAll:
		return Period(s)
	default:
		return Period1M
	}
}

// Point is one entry of the growth chart
type Point struct {
	Date          string  `json:"date"`
	TotalValue    float64 `json:"total_value"`
	TotalInvested float64 `json:"total_invested"`
}

// Summary holds the period-scoped invested/current pair.
// Invested is the incremental cost basis contributed within the window,
// Current is the net value change across it. The two deliberately use
// different bases; callers depend on that asymmetry.
type Summary struct {
	Invested float64 `json:"invested"`
	Current  float64 `json:"current"`
}

// TrendPoint pairs a chart point with its moving-average overlay value
type TrendPoint struct {
	Date       string  `json:"date"`
	TotalValue float64 `json:"total_value"`
	SMA        float64 `json:"sma"`
}
