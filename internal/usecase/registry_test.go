//go:build unit

package usecase_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/usecase"
)

func TestRegistryWith(t *testing.T) {
	t.Run("first use creates an empty session", func(t *testing.T) {
		r := usecase.NewCartRegistry()

		err := r.With("pdv-01", func(s *usecase.TerminalSession) error {
			assert.True(t, s.Cart.IsEmpty())
			assert.Nil(t, s.LastSale)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("state persists across calls", func(t *testing.T) {
		r := usecase.NewCartRegistry()
		p := catalog.Product{
			ID:            uuid.New(),
			Code:          "7891000100103",
			Name:          "product",
			UnitPrice:     decimal.RequireFromString("4.50"),
			Unit:          "UN",
			StockQuantity: decimal.RequireFromString("10"),
		}

		require.NoError(t, r.With("pdv-01", func(s *usecase.TerminalSession) error {
			return s.Cart.AddProduct(p)
		}))

		require.NoError(t, r.With("pdv-01", func(s *usecase.TerminalSession) error {
			assert.False(t, s.Cart.IsEmpty())
			return nil
		}))
	})

	t.Run("terminals are independent", func(t *testing.T) {
		r := usecase.NewCartRegistry()
		p := catalog.Product{
			ID:            uuid.New(),
			Name:          "product",
			UnitPrice:     decimal.RequireFromString("1.00"),
			StockQuantity: decimal.RequireFromString("10"),
		}

		require.NoError(t, r.With("pdv-01", func(s *usecase.TerminalSession) error {
			return s.Cart.AddProduct(p)
		}))

		require.NoError(t, r.With("pdv-02", func(s *usecase.TerminalSession) error {
			assert.True(t, s.Cart.IsEmpty())
			return nil
		}))
	})

	t.Run("concurrent access to one terminal is serialized", func(t *testing.T) {
		r := usecase.NewCartRegistry()
		p := catalog.Product{
			ID:            uuid.New(),
			Name:          "product",
			UnitPrice:     decimal.RequireFromString("1.00"),
			StockQuantity: decimal.RequireFromString("1000"),
		}

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = r.With("pdv-01", func(s *usecase.TerminalSession) error {
					return s.Cart.AddProduct(p)
				})
			}()
		}
		wg.Wait()

		require.NoError(t, r.With("pdv-01", func(s *usecase.TerminalSession) error {
			lines := s.Cart.Lines()
			require.Len(t, lines, 1)
			assert.True(t, lines[0].Quantity().Equal(decimal.NewFromInt(100)))
			return nil
		}))
	})
}

func TestRegistryDrop(t *testing.T) {
	r := usecase.NewCartRegistry()
	p := catalog.Product{
		ID:            uuid.New(),
		Name:          "product",
		UnitPrice:     decimal.RequireFromString("1.00"),
		StockQuantity: decimal.RequireFromString("10"),
	}

	require.NoError(t, r.With("pdv-01", func(s *usecase.TerminalSession) error {
		return s.Cart.AddProduct(p)
	}))

	r.Drop("pdv-01")

	require.NoError(t, r.With("pdv-01", func(s *usecase.TerminalSession) error {
		assert.True(t, s.Cart.IsEmpty(), "a dropped terminal starts from scratch")
		return nil
	}))
}
