package pg

import (
	"context"
	"time"

	"arbwatch/internal/application"
	"arbwatch/internal/domain"
)

type SignatureRepo struct{ db *DB }

var _ application.SignatureRepo = (*SignatureRepo)(nil)

func NewSignatureRepo(db *DB) *SignatureRepo { return &SignatureRepo{db: db} }

func (r *SignatureRepo) Exists(ctx context.Context, sig domain.Signature, since time.Time) (bool, error) {
	const q = `
        SELECT EXISTS (
            SELECT 1 FROM sent_signatures
            WHERE symbol=$1 AND buy_exchange=$2 AND sell_exchange=$3
              AND buy_price=$4 AND sell_price=$5 AND percent_spread=$6
              AND quantity=$7 AND net_profit=$8
              AND sent_at >= $9
        )`
	var found bool
	err := r.db.q(ctx).QueryRow(ctx, q,
		sig.Symbol, sig.BuyExchange, sig.SellExchange,
		sig.BuyPrice, sig.SellPrice, sig.PercentSpread,
		sig.Quantity, sig.NetProfit, since).Scan(&found)
	if err != nil {
		return false, err
	}
	return found, nil
}

func (r *SignatureRepo) Append(ctx context.Context, sig domain.Signature) error {
	const ins = `
        INSERT INTO sent_signatures(symbol, buy_exchange, sell_exchange,
            buy_price, sell_price, percent_spread, quantity, net_profit, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT ON CONSTRAINT sent_signatures_tuple_uniq
          DO UPDATE SET sent_at=EXCLUDED.sent_at`
	_, err := r.db.q(ctx).Exec(ctx, ins,
		sig.Symbol, sig.BuyExchange, sig.SellExchange,
		sig.BuyPrice, sig.SellPrice, sig.PercentSpread,
		sig.Quantity, sig.NetProfit, sig.SentAt)
	return err
}

func (r *SignatureRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.q(ctx).Exec(ctx, `DELETE FROM sent_signatures WHERE sent_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
