package analytics

import (
	"github.com/wealthlens/wealthlens/internal/modules/goals"
	"github.com/wealthlens/wealthlens/internal/modules/history"
	"github.com/wealthlens/wealthlens/internal/modules/investments"
	"github.com/wealthlens/wealthlens/internal/modules/recommendations"
)

// Slice is one asset-type segment of the allocation pie, with a
// display name like "Mutual Fund" derived from the stored type.
type Slice struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Metrics carries risk and performance statistics computed from the
// snapshot series. Pointer fields are null when the series is too short
// for the statistic to be meaningful.
type Metrics struct {
	TotalReturnPct  float64  `json:"total_return_pct"`
	Volatility      float64  `json:"volatility"`
	SharpeRatio     *float64 `json:"sharpe_ratio"`
	MaxDrawdown     *float64 `json:"max_drawdown"`
	CurrentDrawdown float64  `json:"current_drawdown"`
	DataPoints      int      `json:"data_points"`
}

// Dashboard is the aggregate payload behind the app's landing view.
// Sections are assembled independently; a failed section arrives zeroed
// rather than failing the whole response.
type Dashboard struct {
	Summary        history.Summary                `json:"summary"`
	Chart          []history.Point                `json:"chart"`
	Allocation     []Slice                        `json:"allocation"`
	Investments    investments.Summary            `json:"investments"`
	Goals          []goals.Progress               `json:"goals"`
	Recommendation recommendations.Recommendation `json:"recommendation"`
}
