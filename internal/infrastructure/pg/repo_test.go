package pg_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"arbwatch/internal/application"
	"arbwatch/internal/domain"
	"arbwatch/internal/infrastructure/pg"

	"github.com/stretchr/testify/require"
)

func sampleOpportunity(symbol string) domain.Opportunity {
	return domain.Opportunity{
		Symbol:        symbol,
		BuyExchange:   "BINANCE",
		SellExchange:  "KRAKEN",
		BuyPrice:      100,
		SellPrice:     102,
		Quantity:      0.5,
		NetProfit:     1.0,
		PercentSpread: 2.0,
		ObservedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestOpportunityRepo_UpsertAndGetLast(t *testing.T) {
	db, teardown := withPostgres(t)
	defer teardown()
	ctx := context.Background()

	repo := pg.NewOpportunityRepo(db)

	_, err := repo.GetLast(ctx, "BTC/USDT")
	require.True(t, errors.Is(err, application.ErrNotFound))

	o := sampleOpportunity("BTC/USDT")
	require.NoError(t, repo.Upsert(ctx, o))

	got, err := repo.GetLast(ctx, "BTC/USDT")
	require.NoError(t, err)
	require.Equal(t, o.BuyExchange, got.BuyExchange)
	require.InDelta(t, o.NetProfit, got.NetProfit, 1e-9)

	o.SellPrice = 105
	o.NetProfit = 2.5
	require.NoError(t, repo.Upsert(ctx, o))

	got, err = repo.GetLast(ctx, "BTC/USDT")
	require.NoError(t, err)
	require.InDelta(t, 105, got.SellPrice, 1e-9)
	require.InDelta(t, 2.5, got.NetProfit, 1e-9)
}

func TestSignatureRepo_AppendExistsPrune(t *testing.T) {
	db, teardown := withPostgres(t)
	defer teardown()
	ctx := context.Background()

	repo := pg.NewSignatureRepo(db)
	now := time.Now().UTC().Truncate(time.Microsecond)
	sig := domain.NewSignature(sampleOpportunity("ETH/USDT"), now)

	found, err := repo.Exists(ctx, sig, now.Add(-time.Hour))
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, repo.Append(ctx, sig))

	found, err = repo.Exists(ctx, sig, now.Add(-time.Hour))
	require.NoError(t, err)
	require.True(t, found)

	// cutoff after sent_at excludes the row
	found, err = repo.Exists(ctx, sig, now.Add(time.Minute))
	require.NoError(t, err)
	require.False(t, found)

	// duplicate append refreshes sent_at instead of erroring
	require.NoError(t, repo.Append(ctx, sig))

	n, err := repo.PruneBefore(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	found, err = repo.Exists(ctx, sig, now.Add(-time.Hour))
	require.NoError(t, err)
	require.False(t, found)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db, teardown := withPostgres(t)
	defer teardown()
	ctx := context.Background()

	opps := pg.NewOpportunityRepo(db)
	uow := &pg.UnitOfWork{Pool: db.Pool}

	boom := errors.New("boom")
	err := uow.Do(ctx, func(txCtx context.Context) error {
		if err := opps.Upsert(txCtx, sampleOpportunity("SOL/USDT")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = opps.GetLast(ctx, "SOL/USDT")
	require.ErrorIs(t, err, application.ErrNotFound)
}

func TestUnitOfWork_CommitsBothWrites(t *testing.T) {
	db, teardown := withPostgres(t)
	defer teardown()
	ctx := context.Background()

	opps := pg.NewOpportunityRepo(db)
	sigs := pg.NewSignatureRepo(db)
	uow := &pg.UnitOfWork{Pool: db.Pool}

	o := sampleOpportunity("XRP/USDT")
	sig := domain.NewSignature(o, o.ObservedAt)

	err := uow.Do(ctx, func(txCtx context.Context) error {
		if err := sigs.Append(txCtx, sig); err != nil {
			return err
		}
		return opps.Upsert(txCtx, o)
	})
	require.NoError(t, err)

	_, err = opps.GetLast(ctx, "XRP/USDT")
	require.NoError(t, err)
	found, err := sigs.Exists(ctx, sig, o.ObservedAt.Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, found)
}
