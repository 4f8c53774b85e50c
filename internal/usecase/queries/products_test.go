//go:build unit

package queries_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/infra/cache"
	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/usecase/queries"
)

type productCacheStub struct {
	products []catalog.Product
	getErr   error
	setErr   error
	setCalls int
}

func (s *productCacheStub) GetProducts(_ context.Context, _ uuid.UUID) ([]catalog.Product, error) {
	return s.products, s.getErr
}

func (s *productCacheStub) SetProducts(_ context.Context, _ uuid.UUID, products []catalog.Product) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	s.products = products
	return nil
}

type productRepoStub struct {
	products     []catalog.Product
	listErr      error
	replaceErr   error
	replaceCalls int
	onList       func()
}

func (s *productRepoStub) ListByCompany(_ context.Context, _ uuid.UUID, _ int32) ([]catalog.Product, error) {
	if s.onList != nil {
		s.onList()
	}
	return s.products, s.listErr
}

func (s *productRepoStub) ReplaceCompany(_ context.Context, _ uuid.UUID, products []catalog.Product) error {
	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.products = products
	return nil
}

type catalogGatewayStub struct {
	products []catalog.Product
	err      error
	calls    int
}

func (s *catalogGatewayStub) FetchProducts(_ context.Context, _ uuid.UUID, _ int32) ([]catalog.Product, error) {
	s.calls++
	return s.products, s.err
}

func someProducts(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = catalog.Product{
			ID:            uuid.New(),
			Code:          uuid.NewString()[:13],
			Name:          "product",
			UnitPrice:     decimal.RequireFromString("4.50"),
			Unit:          "UN",
			StockQuantity: decimal.RequireFromString("10"),
		}
	}
	return out
}

func TestProductLoad(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("cache hit short-circuits the chain", func(t *testing.T) {
		cache := &productCacheStub{products: someProducts(2)}
		repo := &productRepoStub{onList: func() { t.Fatal("replica must not be read on a cache hit") }}
		gateway := &catalogGatewayStub{}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		products, err := q.Load(ctx, companyID)

		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Zero(t, gateway.calls)
	})

	t.Run("replica hit warms the cache", func(t *testing.T) {
		cache := &productCacheStub{}
		repo := &productRepoStub{products: someProducts(3)}
		gateway := &catalogGatewayStub{}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		products, err := q.Load(ctx, companyID)

		require.NoError(t, err)
		assert.Len(t, products, 3)
		assert.Equal(t, 1, cache.setCalls)
		assert.Zero(t, gateway.calls)
	})

	t.Run("gateway fills both faster tiers", func(t *testing.T) {
		cache := &productCacheStub{}
		repo := &productRepoStub{}
		gateway := &catalogGatewayStub{products: someProducts(5)}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		products, err := q.Load(ctx, companyID)

		require.NoError(t, err)
		assert.Len(t, products, 5)
		assert.Equal(t, 1, cache.setCalls)
		assert.Equal(t, 1, repo.replaceCalls)
	})

	t.Run("replica errors fall through to the gateway", func(t *testing.T) {
		cache := &productCacheStub{}
		repo := &productRepoStub{listErr: errs.New("connection refused")}
		gateway := &catalogGatewayStub{products: someProducts(1)}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		products, err := q.Load(ctx, companyID)

		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("replica refresh failure is not fatal", func(t *testing.T) {
		cache := &productCacheStub{}
		repo := &productRepoStub{replaceErr: errs.New("disk full")}
		gateway := &catalogGatewayStub{products: someProducts(1)}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		products, err := q.Load(ctx, companyID)

		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("all tiers empty or down", func(t *testing.T) {
		cache := &productCacheStub{}
		repo := &productRepoStub{}
		gateway := &catalogGatewayStub{err: errs.New("timeout")}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		_, err := q.Load(ctx, companyID)

		assert.ErrorIs(t, err, queries.ErrCatalogUnavailable)
	})

	t.Run("superseded load is discarded", func(t *testing.T) {
		cache := &productCacheStub{}
		repo := &productRepoStub{products: someProducts(2)}
		gateway := &catalogGatewayStub{}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		// The first load reads the replica; while it is in flight a second
		// load for the same company starts and settles. The first response
		// is older and must be dropped.
		var innerErr error
		var innerProducts []catalog.Product
		fired := false
		repo.onList = func() {
			if fired {
				return
			}
			fired = true
			innerProducts, innerErr = q.Load(ctx, companyID)
		}

		_, err := q.Load(ctx, companyID)

		assert.ErrorIs(t, err, queries.ErrLoadSuperseded)
		require.NoError(t, innerErr)
		assert.Len(t, innerProducts, 2, "the newer load still succeeds")
	})

	t.Run("warmed in-process cache serves the second load alone", func(t *testing.T) {
		store := cache.NewMemoryCache()
		repo := &productRepoStub{}
		gateway := &catalogGatewayStub{products: someProducts(4)}
		q := queries.NewProductQueries(store, repo, gateway, 100)

		first, err := q.Load(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, first, 4)

		second, err := q.Load(ctx, companyID)
		require.NoError(t, err)
		assert.Len(t, second, 4)
		assert.Equal(t, 1, gateway.calls, "second load must come from the cache")
	})

	t.Run("loads for different companies are independent", func(t *testing.T) {
		cache := &productCacheStub{}
		repo := &productRepoStub{products: someProducts(1)}
		gateway := &catalogGatewayStub{}
		q := queries.NewProductQueries(cache, repo, gateway, 100)

		fired := false
		repo.onList = func() {
			if fired {
				return
			}
			fired = true
			_, _ = q.Load(ctx, uuid.New())
		}

		_, err := q.Load(ctx, companyID)

		assert.NoError(t, err, "another company's load must not supersede this one")
	})
}

func TestProductFind(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	products := someProducts(3)
	products[1].Code = "7891000100103"

	cache := &productCacheStub{products: products}
	q := queries.NewProductQueries(cache, &productRepoStub{}, &catalogGatewayStub{}, 100)

	t.Run("by id", func(t *testing.T) {
		got, err := q.FindByID(ctx, companyID, products[2].ID)
		require.NoError(t, err)
		assert.Equal(t, products[2].ID, got.ID)
	})

	t.Run("by code", func(t *testing.T) {
		got, err := q.FindByCode(ctx, companyID, "7891000100103")
		require.NoError(t, err)
		assert.Equal(t, products[1].ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := q.FindByID(ctx, companyID, uuid.New())
		assert.ErrorIs(t, err, queries.ErrProductNotFound)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := q.FindByCode(ctx, companyID, "0000000000000")
		assert.ErrorIs(t, err, queries.ErrProductNotFound)
	})
}
