package pg

import (
	"context"
	"errors"

	"arbwatch/internal/application"
	"arbwatch/internal/domain"

	"github.com/jackc/pgx/v5"
)

type OpportunityRepo struct{ db *DB }

var _ application.OpportunityRepo = (*OpportunityRepo)(nil)

func NewOpportunityRepo(db *DB) *OpportunityRepo { return &OpportunityRepo{db: db} }

func (r *OpportunityRepo) GetLast(ctx context.Context, symbol string) (domain.Opportunity, error) {
	const q = `
        SELECT symbol, buy_exchange, sell_exchange,
               buy_price, sell_price, quantity, net_profit, percent_spread,
               observed_at
        FROM opportunities WHERE symbol=$1`
	var out domain.Opportunity
	err := r.db.q(ctx).QueryRow(ctx, q, symbol).Scan(
		&out.Symbol, &out.BuyExchange, &out.SellExchange,
		&out.BuyPrice, &out.SellPrice, &out.Quantity, &out.NetProfit, &out.PercentSpread,
		&out.ObservedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Opportunity{}, application.ErrNotFound
		}
		return domain.Opportunity{}, err
	}
	return out, nil
}

func (r *OpportunityRepo) Upsert(ctx context.Context, o domain.Opportunity) error {
	const up = `
        INSERT INTO opportunities(symbol, buy_exchange, sell_exchange,
            buy_price, sell_price, quantity, net_profit, percent_spread, observed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (symbol) DO UPDATE
          SET buy_exchange=EXCLUDED.buy_exchange,
              sell_exchange=EXCLUDED.sell_exchange,
              buy_price=EXCLUDED.buy_price,
              sell_price=EXCLUDED.sell_price,
              quantity=EXCLUDED.quantity,
              net_profit=EXCLUDED.net_profit,
              percent_spread=EXCLUDED.percent_spread,
              observed_at=EXCLUDED.observed_at`
	_, err := r.db.q(ctx).Exec(ctx, up,
		o.Symbol, o.BuyExchange, o.SellExchange,
		o.BuyPrice, o.SellPrice, o.Quantity, o.NetProfit, o.PercentSpread,
		o.ObservedAt)
	return err
}
