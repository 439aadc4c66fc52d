package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

const shareKeyPrefix = "share:"

// redisUpdateRetries bounds optimistic transaction attempts before the
// update is reported as a conflict.
const redisUpdateRetries = 5

// RedisShareStore keeps snapshots as JSON values with optional native TTL.
type RedisShareStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisShareStore constructs the store. A zero ttl means entries live
// until explicitly deleted.
func NewRedisShareStore(client *redis.Client, ttl time.Duration) *RedisShareStore {
	return &RedisShareStore{client: client, ttl: ttl}
}

func shareKey(code string) string {
	return shareKeyPrefix + code
}

// Put stores the snapshot, applying the configured TTL.
func (s *RedisShareStore) Put(ctx context.Context, code string, snap *models.ShareSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", code, err)
	}
	if err := s.client.Set(ctx, shareKey(code), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", code, err)
	}
	return nil
}

// Get fetches the snapshot for the code.
func (s *RedisShareStore) Get(ctx context.Context, code string) (*models.ShareSnapshot, error) {
	raw, err := s.client.Get(ctx, shareKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", code, err)
	}
	return unmarshalSnapshot(code, raw)
}

// Update applies mutate through a WATCH-guarded optimistic transaction.
// A concurrent writer invalidates the attempt and the read-mutate-write is
// retried against the fresh value, so no writer's change is silently lost.
func (s *RedisShareStore) Update(ctx context.Context, code string, mutate func(*models.ShareSnapshot) error) error {
	key := shareKey(code)

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return appErrors.ErrNotFound
			}
			return fmt.Errorf("redis get %s: %w", code, err)
		}
		snap, err := unmarshalSnapshot(code, raw)
		if err != nil {
			return err
		}
		if err := mutate(snap); err != nil {
			return err
		}
		updated, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal snapshot %s: %w", code, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < redisUpdateRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return appErrors.Clone(appErrors.ErrConflict, "too much contention on share entry")
}

// Delete removes the entry if present.
func (s *RedisShareStore) Delete(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, shareKey(code)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", code, err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis expires entries natively via TTL.
func (s *RedisShareStore) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	return 0, nil
}
