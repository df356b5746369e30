package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"arbwatch/internal/domain"

	"go.uber.org/zap"
)

// Thresholds are the static detection and suppression bounds.
type Thresholds struct {
	NotionalUSD     float64 // reference trade size in quote currency
	MinSpreadPct    float64 // below this the opportunity is noise
	MaxSpreadPct    float64 // at or above this the quotes are assumed stale/erroneous
	MinRelChange    float64 // relative buy/sell price move to count as "changed"
	MinProfitChange float64 // absolute net-profit move to count as "changed"
}

// Detector consumes quotes, maintains the price board and decides, per
// symbol, whether a detected opportunity is new enough to notify.
// Ingestion is serialized per symbol; independent symbols run in parallel.
type Detector struct {
	board    *PriceBoard
	opps     OpportunityRepo
	sigs     SignatureRepo
	reserve  SignatureReserver
	notifier Notifier
	uow      UnitOfWork
	fees     domain.FeeTable
	th       Thresholds
	retain   time.Duration
	clock    Clock
	log      *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Detector)

func WithClock(c Clock) Option          { return func(d *Detector) { d.clock = c } }
func WithLogger(l *zap.Logger) Option   { return func(d *Detector) { d.log = l } }
func WithUnitOfWork(u UnitOfWork) Option { return func(d *Detector) { d.uow = u } }

func NewDetector(opps OpportunityRepo, sigs SignatureRepo, reserve SignatureReserver, notifier Notifier, fees domain.FeeTable, th Thresholds, retain time.Duration, opts ...Option) *Detector {
	d := &Detector{
		board:    NewPriceBoard(),
		opps:     opps,
		sigs:     sigs,
		reserve:  reserve,
		notifier: notifier,
		fees:     fees,
		th:       th,
		retain:   retain,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = realClock{}
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.uow == nil {
		d.uow = NoopUoW{}
	}
	return d
}

// Ingest records a quote on the board and, once the symbol has prices from
// at least two exchanges, runs detection for that symbol before returning.
func (d *Detector) Ingest(ctx context.Context, q domain.Quote) error {
	if q.Symbol == "" || q.Exchange == "" || q.Price <= 0 {
		return ErrInvalidQuote
	}
	lock := d.symbolLock(q.Symbol)
	lock.Lock()
	defer lock.Unlock()

	if d.board.Put(q) < 2 {
		return nil
	}
	d.evaluate(ctx, q.Symbol, d.board.Snapshot(q.Symbol), q.ObservedAt)
	return nil
}

func (d *Detector) symbolLock(symbol string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		d.locks[symbol] = l
	}
	return l
}

func (d *Detector) evaluate(ctx context.Context, symbol string, prices map[string]float64, observedAt time.Time) {
	log := d.log.With(zap.String("symbol", symbol))

	buyEx, sellEx := bestPair(prices)
	buyPrice, sellPrice := prices[buyEx], prices[sellEx]
	if buyPrice >= sellPrice {
		log.Debug("detect.no_edge")
		return
	}

	qty := Quantity(d.th.NotionalUSD, buyPrice)
	profit := NetProfit(qty, buyPrice, sellPrice, d.fees.Rate(buyEx), d.fees.Rate(sellEx))
	spread := PercentSpread(buyPrice, sellPrice)

	if spread < d.th.MinSpreadPct {
		log.Debug("detect.below_threshold", zap.Float64("spread_pct", spread))
		return
	}
	if spread >= d.th.MaxSpreadPct {
		log.Warn("detect.implausible_spread",
			zap.Float64("spread_pct", spread),
			zap.String("buy_exchange", buyEx),
			zap.String("sell_exchange", sellEx),
		)
		return
	}

	cand := domain.Opportunity{
		Symbol:        symbol,
		BuyExchange:   buyEx,
		SellExchange:  sellEx,
		BuyPrice:      buyPrice,
		SellPrice:     sellPrice,
		Quantity:      qty,
		NetProfit:     profit,
		PercentSpread: spread,
		ObservedAt:    observedAt,
	}
	d.decide(ctx, log, cand)
}

// decide applies the two-layer suppression check and, on acceptance,
// dispatches the notification and persists the new state. Store failures
// are treated conservatively: no notification without a completed check.
func (d *Detector) decide(ctx context.Context, log *zap.Logger, cand domain.Opportunity) {
	prior, err := d.opps.GetLast(ctx, cand.Symbol)
	switch {
	case errors.Is(err, ErrNotFound) || errors.Is(err, domain.ErrNotFound):
		// First opportunity for this symbol.
	case err != nil:
		log.Warn("suppress.prior_lookup_failed", zap.Error(err))
		return
	default:
		if d.unchanged(cand, prior) {
			log.Info("suppress.insignificant_change",
				zap.Float64("buy_price", cand.BuyPrice),
				zap.Float64("sell_price", cand.SellPrice),
			)
			return
		}
	}

	now := d.clock.Now().UTC()
	sig := domain.NewSignature(cand, now)

	exists, err := d.sigs.Exists(ctx, sig, now.Add(-d.retain))
	if err != nil {
		log.Warn("suppress.signature_lookup_failed", zap.Error(err))
		return
	}
	if exists {
		log.Info("suppress.duplicate_signature")
		return
	}

	ok, err := d.reserve.TryReserve(ctx, sig.Key())
	if err != nil {
		log.Warn("suppress.reserve_failed", zap.Error(err))
		return
	}
	if !ok {
		log.Info("suppress.already_reserved")
		return
	}

	if err := d.notifier.Send(ctx, FormatOpportunity(cand, now)); err != nil {
		log.Warn("notify.send_failed", zap.Error(err))
	} else {
		log.Info("notify.sent",
			zap.String("buy_exchange", cand.BuyExchange),
			zap.String("sell_exchange", cand.SellExchange),
			zap.Float64("spread_pct", cand.PercentSpread),
			zap.Float64("net_profit", cand.NetProfit),
		)
	}

	err = d.uow.Do(ctx, func(ctx context.Context) error {
		if err := d.sigs.Append(ctx, sig); err != nil {
			return fmt.Errorf("append signature: %w", err)
		}
		if err := d.opps.Upsert(ctx, cand); err != nil {
			return fmt.Errorf("upsert opportunity: %w", err)
		}
		return nil
	})
	if err != nil {
		// At-most-once persistence under fault; the notification is out.
		log.Error("state.write_failed", zap.Error(err))
	}
}

// unchanged reports whether the candidate moved too little from the stored
// prior to be worth another alert. All three deltas must be small.
func (d *Detector) unchanged(c, p domain.Opportunity) bool {
	dBuy := math.Abs(c.BuyPrice-p.BuyPrice) / p.BuyPrice
	dSell := math.Abs(c.SellPrice-p.SellPrice) / p.SellPrice
	dProfit := math.Abs(c.NetProfit - p.NetProfit)
	return dBuy < d.th.MinRelChange && dSell < d.th.MinRelChange && dProfit < d.th.MinProfitChange
}

// RunSignaturePruner deletes signatures older than the retention window on
// the given interval, until the context is canceled.
func (d *Detector) RunSignaturePruner(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cutoff := d.clock.Now().UTC().Add(-d.retain)
			n, err := d.sigs.PruneBefore(ctx, cutoff)
			if err != nil {
				d.log.Warn("sig_prune.failed", zap.Error(err))
				continue
			}
			if n > 0 {
				d.log.Info("sig_prune.done", zap.Int64("deleted", n))
			}
		}
	}
}

// bestPair picks argmin and argmax over the price map. Iteration order is
// fixed by sorting exchange names so ties resolve deterministically.
func bestPair(prices map[string]float64) (buyEx, sellEx string) {
	names := make([]string, 0, len(prices))
	for ex := range prices {
		names = append(names, ex)
	}
	sort.Strings(names)
	buyEx, sellEx = names[0], names[0]
	for _, ex := range names[1:] {
		if prices[ex] < prices[buyEx] {
			buyEx = ex
		}
		if prices[ex] > prices[sellEx] {
			sellEx = ex
		}
	}
	return buyEx, sellEx
}

// FormatOpportunity renders the Telegram alert body (Markdown).
func FormatOpportunity(o domain.Opportunity, at time.Time) string {
	return fmt.Sprintf(
		"🚀 *Arbitrage opportunity!* 🚀\n\n"+
			"*Symbol:* `%s`\n"+
			"💰 *Buy on %s:* `$%.6f`\n"+
			"📈 *Sell on %s:* `$%.6f`\n"+
			"📊 *Spread:* `%.2f%%`\n\n"+
			"🛒 *Quantity:* `%.6f`\n"+
			"💸 *Net profit:* `$%.2f`\n"+
			"📅 *Time:* `%s`",
		o.Symbol,
		o.BuyExchange, o.BuyPrice,
		o.SellExchange, o.SellPrice,
		o.PercentSpread,
		o.Quantity,
		o.NetProfit,
		at.Format("2006-01-02 15:04:05"),
	)
}
