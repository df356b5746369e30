package redisstore

import (
	"context"
	"time"

	"arbwatch/internal/application"

	"github.com/redis/go-redis/v9"
)

// Store claims signature keys with SET NX so that only one detector
// process sends a given notification. The TTL should cover the signature
// retention window.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

var _ application.SignatureReserver = (*Store)(nil)

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func (s *Store) TryReserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, key, "1", s.TTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
