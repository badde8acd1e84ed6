package domain

import "time"

// AssetType classifies an investment holding
type AssetType string

const (
	AssetStock      AssetType = "stock"
	AssetETF        AssetType = "etf"
	AssetMutualFund AssetType = "mutual_fund"
	AssetBond       AssetType = "bond"
	AssetCash       AssetType = "cash"
)

// AssetCategory is the coarse bucket used by allocation targets
type AssetCategory string

const (
	CategoryEquity AssetCategory = "equity"
	CategoryDebt   AssetCategory = "debt"
	CategoryCash   AssetCategory = "cash"
)

// CategoryOf maps an asset type to its allocation category.
// Unknown types count as equity, matching the dashboard's grouping.
func CategoryOf(t AssetType) AssetCategory {
	switch t {
	case AssetBond:
		return CategoryDebt
	case AssetCash:
		return CategoryCash
	default:
		return CategoryEquity
	}
}

// RiskProfile is the user's risk tier, set by the risk questionnaire
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskModerate     RiskProfile = "moderate"
	RiskAggressive   RiskProfile = "aggressive"
)

// GoalStatus represents goal lifecycle state
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
)

// TransactionType is the ledger entry direction
type TransactionType string

const (
	TxBuy  TransactionType = "buy"
	TxSell TransactionType = "sell"
)

// PortfolioSnapshot is a dated record of total portfolio value and
// cumulative cost basis. One row per user per calendar day; later writes
// for the same day replace the earlier ones.
type PortfolioSnapshot struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Date          time.Time `json:"date"`
	TotalValue    float64   `json:"total_value"`
	TotalInvested float64   `json:"total_invested"`
}

// Investment is a single holding owned by one user
type Investment struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	GoalID       *int64    `json:"goal_id,omitempty"`
	Symbol       string    `json:"symbol"`
	AssetType    AssetType `json:"asset_type"`
	Units        float64   `json:"units"`
	AvgBuyPrice  float64   `json:"avg_buy_price"`
	CostBasis    float64   `json:"cost_basis"`
	CurrentValue float64   `json:"current_value"`
	LastPrice    float64   `json:"last_price"`
	LastPriceAt  time.Time `json:"last_price_at"`
}

// Goal is a savings target. Current progress is derived, never stored.
type Goal struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	GoalType            string     `json:"goal_type"`
	TargetAmount        float64    `json:"target_amount"`
	TargetDate          time.Time  `json:"target_date"`
	MonthlyContribution float64    `json:"monthly_contribution"`
	Status              GoalStatus `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Transaction is an append-only ledger entry, never mutated after creation
type Transaction struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Symbol     string          `json:"symbol"`
	AssetType  AssetType       `json:"asset_type"`
	Type       TransactionType `json:"type"`
	Quantity   float64         `json:"quantity"`
	Price      float64         `json:"price"`
	Fees       float64         `json:"fees"`
	ExecutedAt time.Time       `json:"executed_at"`
}
