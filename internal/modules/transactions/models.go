package transactions

import "github.com/wealthlens/wealthlens/internal/domain"

// CreateRequest is the payload for recording a trade
type CreateRequest struct {
	Symbol     string  `json:"symbol"`
	AssetType  string  `json:"asset_type"`
	Type       string  `json:"type"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Fees       float64 `json:"fees"`
	ExecutedAt string  `json:"executed_at,omitempty"`
}

// Page is one page of the ledger, newest entries first
type Page struct {
	Transactions []domain.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

// ApplyResult reports the position after a trade was absorbed
type ApplyResult struct {
	Transaction  domain.Transaction `json:"transaction"`
	Position     *domain.Investment `json:"position,omitempty"`
	RealizedGain float64            `json:"realized_gain,omitempty"`
	Closed       bool               `json:"closed,omitempty"`
}
