package domain

import "time"

// Opportunity is a detected cross-exchange buy/sell pair for a symbol.
// It is always recomputed from the current price board; exactly one is
// stored per symbol (upsert by symbol).
type Opportunity struct {
	Symbol        string
	BuyExchange   string
	SellExchange  string
	BuyPrice      float64
	SellPrice     float64
	Quantity      float64
	NetProfit     float64
	PercentSpread float64
	ObservedAt    time.Time
}
