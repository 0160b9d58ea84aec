package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot reports that no last-good payload exists for the date.
var ErrNoSnapshot = errors.New("no cached snapshot for date")

// SnapshotStore keeps the last successfully fetched feed payload per date.
type SnapshotStore interface {
	Store(ctx context.Context, dateKey string, payload []byte) error
	Load(ctx context.Context, dateKey string) ([]byte, error)
}

type RedisSnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSnapshotStore(rdb *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, ttl: ttl}
}

func snapshotKey(dateKey string) string {
	return fmt.Sprintf("feed:snapshot:%s", dateKey)
}

func (s *RedisSnapshotStore) Store(ctx context.Context, dateKey string, payload []byte) error {
	return s.rdb.Set(ctx, snapshotKey(dateKey), payload, s.ttl).Err()
}

func (s *RedisSnapshotStore) Load(ctx context.Context, dateKey string) ([]byte, error) {
	payload, err := s.rdb.Get(ctx, snapshotKey(dateKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}
