package application

import (
	"sync"
	"time"

	"arbwatch/internal/domain"
)

type boardEntry struct {
	price      float64
	observedAt time.Time
}

// PriceBoard keeps the latest price per (symbol, exchange). It is owned by
// the Detector and never exposed as shared state; a given pair always
// holds the most recent quote seen, no history is kept.
type PriceBoard struct {
	mu      sync.RWMutex
	symbols map[string]map[string]boardEntry
}

func NewPriceBoard() *PriceBoard {
	return &PriceBoard{symbols: make(map[string]map[string]boardEntry)}
}

// Put overwrites the entry for the quote's (symbol, exchange) pair and
// returns the number of distinct exchanges recorded for the symbol.
func (b *PriceBoard) Put(q domain.Quote) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.symbols[q.Symbol]
	if !ok {
		entry = make(map[string]boardEntry)
		b.symbols[q.Symbol] = entry
	}
	entry[q.Exchange] = boardEntry{price: q.Price, observedAt: q.ObservedAt}
	return len(entry)
}

// Snapshot returns a copy of the symbol's exchange→price map. Mutating the
// returned map does not affect the board.
func (b *PriceBoard) Snapshot(symbol string) map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.symbols[symbol]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(entry))
	for ex, e := range entry {
		out[ex] = e.price
	}
	return out
}

// Exchanges returns how many distinct exchanges have reported the symbol.
func (b *PriceBoard) Exchanges(symbol string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.symbols[symbol])
}
