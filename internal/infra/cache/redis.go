package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pdv-terminal/internal/domain/catalog"
)

// RedisCache stores the product catalog and register sessions per company.
// TTL gets a small jitter so every terminal of a store does not expire its
// cache in the same instant.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (r *RedisCache) GetProducts(ctx context.Context, companyID uuid.UUID) ([]catalog.Product, error) {
	data, err := r.client.Get(ctx, productKey(companyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (r *RedisCache) SetProducts(ctx context.Context, companyID uuid.UUID, products []catalog.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}
	if err := r.client.Set(ctx, productKey(companyID), data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) GetSession(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(companyID, terminalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var session catalog.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &session, nil
}

func (r *RedisCache) SetSession(ctx context.Context, session *catalog.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	key := sessionKey(session.CompanyID, session.TerminalID)
	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) ttl() time.Duration {
	jitter := time.Duration(rand.Intn(60)) * time.Second
	return r.baseTTL + jitter
}

func productKey(companyID uuid.UUID) string {
	return fmt.Sprintf("catalog:%s:products", companyID)
}

func sessionKey(companyID uuid.UUID, terminalID string) string {
	return fmt.Sprintf("catalog:%s:session:%s", companyID, terminalID)
}
