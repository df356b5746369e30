package stream

import (
	"errors"
	"time"

	"arbwatch/internal/domain"
)

// PriceEvent is the wire format carried on the quote channel.
type PriceEvent struct {
	Exchange  string  `json:"exchange"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"` // ISO-8601
}

var (
	ErrMissingExchange = errors.New("event missing exchange")
	ErrMissingSymbol   = errors.New("event missing symbol")
	ErrInvalidPrice    = errors.New("event price must be positive")
)

// Validate checks the required fields. Invalid events are dropped by the
// consumer; they must never reach the price board.
func (e PriceEvent) Validate() error {
	if e.Exchange == "" {
		return ErrMissingExchange
	}
	if e.Symbol == "" {
		return ErrMissingSymbol
	}
	if e.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Quote converts the event to a domain quote. A missing or unparsable
// timestamp falls back to receipt time.
func (e PriceEvent) Quote(receivedAt time.Time) domain.Quote {
	observed := receivedAt
	if e.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
			observed = t
		}
	}
	return domain.Quote{
		Exchange:   e.Exchange,
		Symbol:     e.Symbol,
		Price:      e.Price,
		ObservedAt: observed,
	}
}

// FromQuote builds the wire event for a quote.
func FromQuote(q domain.Quote) PriceEvent {
	return PriceEvent{
		Exchange:  q.Exchange,
		Symbol:    q.Symbol,
		Price:     q.Price,
		Timestamp: q.ObservedAt.UTC().Format(time.RFC3339Nano),
	}
}
