package poller

import (
	"context"
	"time"

	"arbwatch/internal/application"
	"arbwatch/internal/infrastructure/stream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Publisher receives every successfully fetched quote. The stream hub
// implements it; tests substitute a recorder.
type Publisher interface {
	Publish(ev stream.PriceEvent)
}

// Poller fans out ticker fetches across all source×symbol pairs on a fixed
// interval. A failed fetch is logged and skipped; the cycle never aborts
// because one exchange is down.
type Poller struct {
	Sources []application.TickerSource
	Symbols []string

	Interval     time.Duration
	FetchTimeout time.Duration
	Concurrency  int

	Pub Publisher
	Log *zap.Logger
}

func (p *Poller) Start(ctx context.Context) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	if p.Interval <= 0 {
		p.Interval = 5 * time.Second
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = 4 * time.Second
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 8
	}

	t := time.NewTicker(p.Interval)
	defer t.Stop()

	log.Info("poller_started",
		zap.Duration("interval", p.Interval),
		zap.Int("sources", len(p.Sources)),
		zap.Strings("symbols", p.Symbols))

	p.pollOnce(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("poller_stopped")
			return
		case <-t.C:
			p.pollOnce(ctx, log)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, log *zap.Logger) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Concurrency)

	for _, src := range p.Sources {
		for _, symbol := range p.Symbols {
			src, symbol := src, symbol
			g.Go(func() error {
				c, cancel := context.WithTimeout(gctx, p.FetchTimeout)
				defer cancel()

				q, err := src.FetchTicker(c, symbol)
				if err != nil {
					log.Warn("poll.fetch_failed",
						zap.String("exchange", src.Exchange()),
						zap.String("symbol", symbol),
						zap.Error(err))
					return nil
				}
				p.Pub.Publish(stream.FromQuote(q))
				log.Debug("poll.quote",
					zap.String("exchange", q.Exchange),
					zap.String("symbol", q.Symbol),
					zap.Float64("price", q.Price))
				return nil
			})
		}
	}
	_ = g.Wait()
}
