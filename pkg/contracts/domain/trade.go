package domain

import (
	"time"
)

// Trade represents a single municipal bond trade. Multiple rows per bond per
// day; used as a full time series for aggregation and collapsed to the latest
// row per bond for cross-sectional joins.
type Trade struct {
	ID        string    `json:"trade_id" validate:"required"`
	BondID    string    `json:"bond_id" validate:"required"`
	TradeDate time.Time `json:"trade_date"`
	Yield     float64   `json:"yield" validate:"min=0"`
	Price     float64   `json:"trade_price" validate:"min=0"`
	Quantity  int64     `json:"quantity" validate:"min=0"`
	BuyerType BuyerType `json:"buyer_type"`
}

// BuyerType classifies the counterparty on the buy side of a trade.
type BuyerType string

const (
	BuyerTypeRetail        BuyerType = "Retail"
	BuyerTypeInstitutional BuyerType = "Institutional"
	BuyerTypeDealer        BuyerType = "Dealer"
)

// MacroIndicator represents one observation of the macroeconomic series.
// One row per date, optionally per region (state code).
type MacroIndicator struct {
	Date                time.Time `json:"date"`
	StateCode           string    `json:"state_code,omitempty"`
	Treasury10Yr        float64   `json:"treasury_10yr"`
	VIXIndex            float64   `json:"vix_index"`
	UnemploymentRatePct float64   `json:"unemployment_rate_pct"`
}
