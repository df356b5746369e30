package redisstore_test

import (
	"context"
	"testing"
	"time"

	redisstore "arbwatch/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestTryReserve(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisstore.New(client, time.Hour)

	ctx := context.Background()
	ok, err := store.TryReserve(ctx, "sig:BTC/USDT:BINANCE:KRAKEN:100.000000:102.000000:2.00:0.500000:1.00")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.TryReserve(ctx, "sig:BTC/USDT:BINANCE:KRAKEN:100.000000:102.000000:2.00:0.500000:1.00")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTryReserve_ExpiresAfterTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisstore.New(client, time.Minute)

	ctx := context.Background()
	ok, err := store.TryReserve(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = store.TryReserve(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTryReserve_ErrorWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisstore.New(client, time.Minute)
	mr.Close()

	_, err = store.TryReserve(context.Background(), "k1")
	require.Error(t, err)
}
