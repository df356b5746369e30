package domain

import "time"

// Quote is a single exchange's last traded price for a symbol. Quotes are
// transient; only the most recent one per (symbol, exchange) is ever kept.
type Quote struct {
	Exchange   string
	Symbol     string
	Price      float64
	ObservedAt time.Time
}
