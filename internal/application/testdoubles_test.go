package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"arbwatch/internal/domain"
)

var ErrRepo = errors.New("repo error")

type fakeOpportunityRepo struct {
	mu      sync.Mutex
	store   map[string]domain.Opportunity
	getErr  error
	saveErr error
	upserts int
}

func (f *fakeOpportunityRepo) GetLast(_ context.Context, symbol string) (domain.Opportunity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.Opportunity{}, f.getErr
	}
	o, ok := f.store[symbol]
	if !ok {
		return domain.Opportunity{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeOpportunityRepo) Upsert(_ context.Context, o domain.Opportunity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.store == nil {
		f.store = map[string]domain.Opportunity{}
	}
	f.store[o.Symbol] = o
	f.upserts++
	return nil
}

type fakeSignatureRepo struct {
	mu        sync.Mutex
	sigs      []domain.Signature
	existsErr error
	appendErr error
}

func (f *fakeSignatureRepo) Exists(_ context.Context, sig domain.Signature, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, s := range f.sigs {
		if s.Key() == sig.Key() && !s.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSignatureRepo) Append(_ context.Context, sig domain.Signature) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.sigs = append(f.sigs, sig)
	return nil
}

func (f *fakeSignatureRepo) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []domain.Signature
	var n int64
	for _, s := range f.sigs {
		if s.SentAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	f.sigs = kept
	return n, nil
}

type fakeReserver struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func (f *fakeReserver) TryReserve(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.keys == nil {
		f.keys = map[string]bool{}
	}
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) Send(_ context.Context, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeNotifier) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }
