package queries

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/pkg/errs"
)

var (
	ErrProductNotFound    = errs.New("product not found")
	ErrCatalogUnavailable = errs.New("catalog unavailable")
	// ErrLoadSuperseded is returned when a newer load for the same company
	// was issued while this one was in flight; the stale response is
	// discarded instead of overwriting fresher state.
	ErrLoadSuperseded = errs.New("load superseded by a newer request")
)

// ProductCache is the fast tier of the loader chain.
type ProductCache interface {
	GetProducts(ctx context.Context, companyID uuid.UUID) ([]catalog.Product, error)
	SetProducts(ctx context.Context, companyID uuid.UUID, products []catalog.Product) error
}

// ProductRepository is the local replica tier.
type ProductRepository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit int32) ([]catalog.Product, error)
	ReplaceCompany(ctx context.Context, companyID uuid.UUID, products []catalog.Product) error
}

// CatalogGateway is the remote tier.
type CatalogGateway interface {
	FetchProducts(ctx context.Context, companyID uuid.UUID, limit int32) ([]catalog.Product, error)
}

type ProductQueries interface {
	Load(ctx context.Context, companyID uuid.UUID) ([]catalog.Product, error)
	FindByID(ctx context.Context, companyID, productID uuid.UUID) (*catalog.Product, error)
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*catalog.Product, error)
}

type productQueriesImpl struct {
	cache      ProductCache
	repo       ProductRepository
	gateway    CatalogGateway
	fetchLimit int32

	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

func NewProductQueries(cache ProductCache, repo ProductRepository, gateway CatalogGateway, fetchLimit int32) ProductQueries {
	return &productQueriesImpl{
		cache:       cache,
		repo:        repo,
		gateway:     gateway,
		fetchLimit:  fetchLimit,
		generations: make(map[uuid.UUID]uint64),
	}
}

// Load walks the tier chain: cache, local replica, remote service. Every
// non-empty tier satisfies the read and refreshes the faster tiers. A
// monotonic generation counter per company guarantees only the most recently
// issued request's response is applied, not merely the most recently settled
// one.
func (q *productQueriesImpl) Load(ctx context.Context, companyID uuid.UUID) ([]catalog.Product, error) {
	gen := q.nextGeneration(companyID)

	if products, err := q.cache.GetProducts(ctx, companyID); err == nil && len(products) > 0 {
		return products, nil
	}

	products, err := q.repo.ListByCompany(ctx, companyID, q.fetchLimit)
	if err != nil {
		slog.Warn("local product replica unavailable", "company_id", companyID, "error", err.Error())
	}
	if len(products) > 0 {
		if !q.isCurrent(companyID, gen) {
			return nil, ErrLoadSuperseded
		}
		q.warmCache(ctx, companyID, products)
		return products, nil
	}

	products, err = q.gateway.FetchProducts(ctx, companyID, q.fetchLimit)
	if err != nil {
		return nil, errs.Mark(err, ErrCatalogUnavailable)
	}
	if !q.isCurrent(companyID, gen) {
		return nil, ErrLoadSuperseded
	}

	q.warmCache(ctx, companyID, products)
	if replaceErr := q.repo.ReplaceCompany(ctx, companyID, products); replaceErr != nil {
		slog.Warn("failed to refresh local product replica", "company_id", companyID, "error", replaceErr.Error())
	}
	return products, nil
}

func (q *productQueriesImpl) FindByID(ctx context.Context, companyID, productID uuid.UUID) (*catalog.Product, error) {
	products, err := q.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (q *productQueriesImpl) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*catalog.Product, error) {
	products, err := q.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Code == code {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (q *productQueriesImpl) warmCache(ctx context.Context, companyID uuid.UUID, products []catalog.Product) {
	if err := q.cache.SetProducts(ctx, companyID, products); err != nil {
		slog.Warn("failed to warm product cache", "company_id", companyID, "error", err.Error())
	}
}

func (q *productQueriesImpl) nextGeneration(companyID uuid.UUID) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generations[companyID]++
	return q.generations[companyID]
}

func (q *productQueriesImpl) isCurrent(companyID uuid.UUID, gen uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.generations[companyID] == gen
}
