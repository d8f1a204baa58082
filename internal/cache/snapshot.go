// Package cache keeps the storefront snapshot in Redis so that back-to-back
// runs and lookup tools do not page through the whole catalog every time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/config"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

const snapshotKey = "suprides-sync:storefront:snapshot"

// NewRedisClient builds a client from either a host:port address or a
// redis:// URL, and checks it with PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var opt *redis.Options
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// SnapshotStore reads and writes the serialized snapshot
type SnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshotStore(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot; ok is false on a miss
func (s *SnapshotStore) Get(ctx context.Context) (listings []domain.StorefrontListing, ok bool, err error) {
	raw, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return listings, true, nil
}

func (s *SnapshotStore) Set(ctx context.Context, listings []domain.StorefrontListing) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.rdb.Set(ctx, snapshotKey, raw, s.ttl).Err()
}

func (s *SnapshotStore) Invalidate(ctx context.Context) error {
	return s.rdb.Del(ctx, snapshotKey).Err()
}

// Upstream is the storefront being cached
type Upstream interface {
	FetchSnapshot(ctx context.Context) ([]domain.StorefrontListing, error)
	CreateListing(ctx context.Context, listing *domain.StorefrontListing) (string, error)
	UpdateListing(ctx context.Context, id string, listing *domain.StorefrontListing) error
}

// CachedStorefront serves snapshots from Redis and drops the cached copy on
// every write. Redis failures fall back to the upstream.
type CachedStorefront struct {
	upstream Upstream
	store    *SnapshotStore
	logger   *zap.Logger
}

func NewCachedStorefront(upstream Upstream, store *SnapshotStore, logger *zap.Logger) *CachedStorefront {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStorefront{upstream: upstream, store: store, logger: logger}
}

func (c *CachedStorefront) FetchSnapshot(ctx context.Context) ([]domain.StorefrontListing, error) {
	listings, ok, err := c.store.Get(ctx)
	if err != nil {
		c.logger.Warn("Snapshot cache read failed", zap.Error(err))
	}
	if ok {
		c.logger.Debug("Snapshot served from cache", zap.Int("products", len(listings)))
		return listings, nil
	}

	listings, err = c.upstream.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, listings); err != nil {
		c.logger.Warn("Snapshot cache write failed", zap.Error(err))
	}
	return listings, nil
}

func (c *CachedStorefront) CreateListing(ctx context.Context, listing *domain.StorefrontListing) (string, error) {
	id, err := c.upstream.CreateListing(ctx, listing)
	c.invalidate(ctx)
	return id, err
}

func (c *CachedStorefront) UpdateListing(ctx context.Context, id string, listing *domain.StorefrontListing) error {
	err := c.upstream.UpdateListing(ctx, id, listing)
	c.invalidate(ctx)
	return err
}

func (c *CachedStorefront) invalidate(ctx context.Context) {
	if err := c.store.Invalidate(ctx); err != nil {
		c.logger.Warn("Snapshot cache invalidation failed", zap.Error(err))
	}
}
