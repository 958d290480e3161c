package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartSnapshotStore keeps the serialized cart of each session.
type CartSnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartSnapshotStore(rdb *redis.Client, ttl time.Duration) *CartSnapshotStore {
	return &CartSnapshotStore{rdb: rdb, ttl: ttl}
}

func (s *CartSnapshotStore) Load(ctx context.Context, sessionID string) ([]byte, bool, error) {
	const op = "redis.CartSnapshotStore.Load"

	b, err := s.rdb.Get(ctx, KeyCartSnapshot(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s:%w", op, err)
	}

	return b, true, nil
}

// Save stores the snapshot and refreshes its TTL.
func (s *CartSnapshotStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	const op = "redis.CartSnapshotStore.Save"

	if err := s.rdb.Set(ctx, KeyCartSnapshot(sessionID), snapshot, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

func (s *CartSnapshotStore) Delete(ctx context.Context, sessionID string) error {
	const op = "redis.CartSnapshotStore.Delete"

	if err := s.rdb.Del(ctx, KeyCartSnapshot(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
