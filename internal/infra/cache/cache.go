// Package cache implements the fast tier of the loader chain.
package cache

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pdv-terminal/internal/domain/catalog"
)

// ErrCacheMiss distinguishes an empty cache from a broken one; the loader
// only falls through the chain on a miss or a logged failure.
var ErrCacheMiss = errors.New("cache miss")

// Store is the combined product/session cache surface the loaders consume.
// Both RedisCache and MemoryCache implement it.
type Store interface {
	GetProducts(ctx context.Context, companyID uuid.UUID) ([]catalog.Product, error)
	SetProducts(ctx context.Context, companyID uuid.UUID, products []catalog.Product) error
	GetSession(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error)
	SetSession(ctx context.Context, session *catalog.Session) error
}
