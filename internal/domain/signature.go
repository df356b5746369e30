package domain

import (
	"fmt"
	"math"
	"time"
)

// Signature is the exact parameter tuple of a notification that was sent.
// Prices and quantity are rounded to 6 decimals, spread and profit to 2,
// so that a recomputed opportunity with the same effective values compares
// equal regardless of float noise.
type Signature struct {
	Symbol        string
	BuyExchange   string
	SellExchange  string
	BuyPrice      float64
	SellPrice     float64
	PercentSpread float64
	Quantity      float64
	NetProfit     float64
	SentAt        time.Time
}

func NewSignature(o Opportunity, sentAt time.Time) Signature {
	return Signature{
		Symbol:        o.Symbol,
		BuyExchange:   o.BuyExchange,
		SellExchange:  o.SellExchange,
		BuyPrice:      roundTo(o.BuyPrice, 6),
		SellPrice:     roundTo(o.SellPrice, 6),
		PercentSpread: roundTo(o.PercentSpread, 2),
		Quantity:      roundTo(o.Quantity, 6),
		NetProfit:     roundTo(o.NetProfit, 2),
		SentAt:        sentAt,
	}
}

// Key renders a deterministic identifier for the tuple, used for the
// short-lived reservation that claims a signature before sending.
func (s Signature) Key() string {
	return fmt.Sprintf("sig:%s:%s:%s:%.6f:%.6f:%.2f:%.6f:%.2f",
		s.Symbol, s.BuyExchange, s.SellExchange,
		s.BuyPrice, s.SellPrice, s.PercentSpread, s.Quantity, s.NetProfit)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
