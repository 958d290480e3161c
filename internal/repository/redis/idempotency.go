package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemLock   = "LOCK"
	idemResult = "RES:"
)

type IdemState int

const (
	// IdemAcquired means the caller owns the key and must SaveResult or Release.
	IdemAcquired IdemState = iota
	// IdemReplay means a stored response is available.
	IdemReplay
	// IdemInProgress means another request holds the key.
	IdemInProgress
)

// IdempotencyStore remembers the response of a request made with an
// Idempotency-Key. A key is either locked while the first request runs or
// holds that request's JSON response.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Begin tries to take key. When a response was already stored it is
// returned with IdemReplay.
func (s *IdempotencyStore) Begin(ctx context.Context, key string, lockTTL time.Duration) (string, IdemState, error) {
	const op = "redis.IdempotencyStore.Begin"

	if payload, ok, err := s.GetResult(ctx, key); err != nil {
		return "", IdemInProgress, fmt.Errorf("%s:%w", op, err)
	} else if ok {
		return payload, IdemReplay, nil
	}

	locked, err := s.rdb.SetNX(ctx, key, idemLock, lockTTL).Result()
	if err != nil {
		return "", IdemInProgress, fmt.Errorf("%s:%w", op, err)
	}
	if locked {
		return "", IdemAcquired, nil
	}

	// lost the race; the winner may have finished in between
	if payload, ok, _ := s.GetResult(ctx, key); ok {
		return payload, IdemReplay, nil
	}

	return "", IdemInProgress, nil
}

func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, jsonPayload string) error {
	return s.rdb.Set(ctx, key, idemResult+jsonPayload, s.ttl).Err()
}

func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if strings.HasPrefix(v, idemResult) {
		return strings.TrimPrefix(v, idemResult), true, nil
	}

	return "", false, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
