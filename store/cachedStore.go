package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Fraol7/FoodWagen/helper"
	"github.com/Fraol7/FoodWagen/models"
	"github.com/go-redis/redis/v8"
)

const (
	listCacheKey    = "foodwagen:foods"
	itemCachePrefix = "foodwagen:food:"
)

var errStaleFill = errors.New("cache key changed during fill")

// CachedStore is a read-through Redis cache in front of another store.
// Reads fall back to the inner store on any Redis failure; writes go to
// the inner store first and then drop the affected keys.
//
// Every cached key has a generation counter that writes bump. A fill only
// lands if the generation it saw before reading the inner store is still
// current, so a slow read cannot put a pre-write value back in the cache.
type CachedStore struct {
	inner FoodStore
	rdb   *redis.Client
	ttl   time.Duration
	log   *helper.Logger
}

func NewCachedStore(inner FoodStore, rdb *redis.Client, ttl time.Duration, log *helper.Logger) *CachedStore {
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func itemCacheKey(id string) string { return itemCachePrefix + id }
func genKey(key string) string      { return key + ":gen" }

func (s *CachedStore) Create(ctx context.Context, food models.Food) (models.Food, error) {
	created, err := s.inner.Create(ctx, food)
	if err != nil {
		return models.Food{}, err
	}
	s.invalidate(ctx, listCacheKey)
	return created, nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (models.Food, error) {
	key := itemCacheKey(id)
	var food models.Food
	if s.read(ctx, key, &food) {
		return food, nil
	}

	gen, ok := s.generation(ctx, key)
	food, err := s.inner.Get(ctx, id)
	if err != nil {
		return models.Food{}, err
	}
	if ok {
		s.write(ctx, key, gen, food)
	}
	return food, nil
}

func (s *CachedStore) List(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	if s.read(ctx, listCacheKey, &foods) && foods != nil {
		return foods, nil
	}

	gen, ok := s.generation(ctx, listCacheKey)
	foods, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		s.write(ctx, listCacheKey, gen, foods)
	}
	return foods, nil
}

func (s *CachedStore) Update(ctx context.Context, id string, patch models.FoodPatch) (models.Food, error) {
	updated, err := s.inner.Update(ctx, id, patch)
	if err != nil {
		return models.Food{}, err
	}
	s.invalidate(ctx, listCacheKey, itemCacheKey(id))
	return updated, nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) (string, error) {
	deleted, err := s.inner.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, listCacheKey, itemCacheKey(id))
	return deleted, nil
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *CachedStore) Close(ctx context.Context) error {
	if err := s.rdb.Close(); err != nil {
		s.log.Warn("", "cache_close_failed", "Redis close failed", "error", err.Error())
	}
	return s.inner.Close(ctx)
}

func (s *CachedStore) read(ctx context.Context, key string, dst any) bool {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("", "cache_read_failed", "Redis read failed, falling back to store", "key", key, "error", err.Error())
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("", "cache_decode_failed", "Dropping undecodable cache entry", "key", key, "error", err.Error())
		s.invalidate(ctx, key)
		return false
	}
	return true
}

// generation reports the current generation of key. ok is false when Redis
// cannot answer, in which case the caller must not fill the cache.
func (s *CachedStore) generation(ctx context.Context, key string) (gen int64, ok bool) {
	gen, err := s.rdb.Get(ctx, genKey(key)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, false
	}
	return gen, true
}

// write stores v under key unless key was invalidated after gen was read.
func (s *CachedStore) write(ctx context.Context, key string, gen int64, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("", "cache_encode_failed", "Skipping cache write", "key", key, "error", err.Error())
		return
	}

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey(key)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			return nil
		})
		return err
	}, genKey(key))

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		s.log.Debug("", "cache_fill_skipped", "Key changed while reading the store", "key", key)
	default:
		s.log.Warn("", "cache_write_failed", "Redis write failed", "key", key, "error", err.Error())
	}
}

func (s *CachedStore) invalidate(ctx context.Context, keys ...string) {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, genKey(key))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		s.log.Warn("", "cache_invalidate_failed", "Redis delete failed", "keys", keys, "error", err.Error())
	}
}
