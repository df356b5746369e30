package application

import (
	"context"
	"time"

	"arbwatch/internal/domain"
)

// OpportunityRepo stores the last notified opportunity per symbol.
type OpportunityRepo interface {
	GetLast(ctx context.Context, symbol string) (domain.Opportunity, error)
	Upsert(ctx context.Context, o domain.Opportunity) error
}

// SignatureRepo is the append-only log of notification signatures.
type SignatureRepo interface {
	// Exists reports whether the exact rounded tuple was already sent at or
	// after the given cutoff.
	Exists(ctx context.Context, sig domain.Signature, since time.Time) (bool, error)
	Append(ctx context.Context, sig domain.Signature) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SignatureReserver atomically claims a signature key before a
// notification is dispatched, so concurrent detectors cannot both send.
type SignatureReserver interface {
	// TryReserve returns true if key was absent and is now reserved.
	TryReserve(ctx context.Context, key string) (bool, error)
}

// NoopReserver always grants the reservation; used in tests and when the
// reservation backend is disabled.
type NoopReserver struct{}

func (NoopReserver) TryReserve(context.Context, string) (bool, error) { return true, nil }

// Notifier delivers an alert message. Delivery is best-effort.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// TickerSource fetches the latest ticker price for a symbol from one
// exchange. Implementations own their retry policy.
type TickerSource interface {
	Exchange() string
	FetchTicker(ctx context.Context, symbol string) (domain.Quote, error)
}

// UnitOfWork provides a minimal transaction boundary using context propagation.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopUoW executes the function without starting a transaction.
type NoopUoW struct{}

func (NoopUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
