//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/domain/promotion"
	"pdv-terminal/internal/domain/sale"
	"pdv-terminal/internal/pkg/clock"
	"pdv-terminal/internal/usecase"
	"pdv-terminal/internal/usecase/commands"
	"pdv-terminal/internal/usecase/queries"
)

type productQueriesStub struct {
	products []catalog.Product
}

func (s *productQueriesStub) Load(_ context.Context, _ uuid.UUID) ([]catalog.Product, error) {
	return s.products, nil
}

func (s *productQueriesStub) FindByID(_ context.Context, _, productID uuid.UUID) (*catalog.Product, error) {
	for i := range s.products {
		if s.products[i].ID == productID {
			return &s.products[i], nil
		}
	}
	return nil, queries.ErrProductNotFound
}

func (s *productQueriesStub) FindByCode(_ context.Context, _ uuid.UUID, code string) (*catalog.Product, error) {
	for i := range s.products {
		if s.products[i].Code == code {
			return &s.products[i], nil
		}
	}
	return nil, queries.ErrProductNotFound
}

type cartFixture struct {
	commands commands.CartCommands
	registry *usecase.CartRegistry
	products *productQueriesStub
	promos   *promotionQueriesStub
	identity commands.Identity
}

func newCartFixture(products ...catalog.Product) *cartFixture {
	f := &cartFixture{
		registry: usecase.NewCartRegistry(),
		products: &productQueriesStub{products: products},
		promos:   &promotionQueriesStub{},
		identity: commands.Identity{CompanyID: uuid.New(), OperatorID: uuid.New()},
	}
	f.commands = commands.NewCartCommands(f.registry, f.products, f.promos, clock.NewMockClock(checkoutTime))
	return f
}

func TestCartAddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("adds by catalog id", func(t *testing.T) {
		p := product("4.50", "10")
		f := newCartFixture(p)

		view, err := f.commands.AddProduct(ctx, f.identity, terminalID, p.ID)

		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, p.ID, view.Lines[0].ProductID)
		assert.True(t, view.Total.Equal(d("4.50")))
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newCartFixture()

		_, err := f.commands.AddProduct(ctx, f.identity, terminalID, uuid.New())

		assert.ErrorIs(t, err, commands.ErrProductNotFound)
	})
}

func TestCartScan(t *testing.T) {
	ctx := context.Background()

	t.Run("weight label adds the embedded weight", func(t *testing.T) {
		p := product("29.90", "100")
		p.Code = "00123"
		p.Unit = "KG"
		f := newCartFixture(p)

		// product 00123, 1005 g
		view, err := f.commands.Scan(ctx, f.identity, terminalID, "2000123010052")

		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.True(t, view.Lines[0].Quantity.Equal(d("1.005")), "got %s", view.Lines[0].Quantity)
	})

	t.Run("price label derives the quantity", func(t *testing.T) {
		p := product("25.00", "100")
		p.Code = "00456"
		p.Unit = "KG"
		f := newCartFixture(p)

		// product 00456, R$ 12.50
		view, err := f.commands.Scan(ctx, f.identity, terminalID, "2700456012500")

		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.True(t, view.Lines[0].Quantity.Equal(d("0.5")), "got %s", view.Lines[0].Quantity)
	})

	t.Run("plain barcode falls through to a code lookup", func(t *testing.T) {
		p := product("4.50", "10")
		f := newCartFixture(p)

		view, err := f.commands.Scan(ctx, f.identity, terminalID, p.Code)

		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.True(t, view.Lines[0].Quantity.Equal(d("1")))
	})

	t.Run("decoded label with no matching product", func(t *testing.T) {
		f := newCartFixture()

		_, err := f.commands.Scan(ctx, f.identity, terminalID, "2000123010052")

		assert.ErrorIs(t, err, commands.ErrProductNotFound)
	})

	t.Run("unknown raw code", func(t *testing.T) {
		f := newCartFixture()

		_, err := f.commands.Scan(ctx, f.identity, terminalID, "no-such-code")

		assert.ErrorIs(t, err, commands.ErrProductNotFound)
	})
}

func TestCartViewPromotions(t *testing.T) {
	ctx := context.Background()
	p := product("10.00", "10")
	f := newCartFixture(p)
	f.promos.promos = []promotion.Promotion{{
		ID:         uuid.New(),
		Name:       "10% off",
		Kind:       promotion.KindPercentage,
		ProductIDs: []uuid.UUID{p.ID},
		Percent:    d("10"),
	}}

	view, err := f.commands.AddProduct(ctx, f.identity, terminalID, p.ID)

	require.NoError(t, err)
	require.Len(t, view.AppliedPromotions, 1)
	assert.True(t, view.PromotionSavings.Equal(d("1.00")), "got %s", view.PromotionSavings)
	assert.True(t, view.Total.Equal(d("9.00")), "got %s", view.Total)
}

func TestCartViewDegradesWithoutPromotions(t *testing.T) {
	ctx := context.Background()
	p := product("10.00", "10")
	f := newCartFixture(p)
	f.promos.err = queries.ErrPromotionsUnavailable

	view, err := f.commands.AddProduct(ctx, f.identity, terminalID, p.ID)

	require.NoError(t, err, "a broken promotion source must never block selling")
	assert.Empty(t, view.AppliedPromotions)
	assert.True(t, view.Total.Equal(d("10.00")))
}

func TestRepeatLastSale(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to repeat", func(t *testing.T) {
		f := newCartFixture()

		_, err := f.commands.RepeatLastSale(ctx, f.identity, terminalID)

		assert.ErrorIs(t, err, commands.ErrNoLastSale)
	})

	t.Run("restores the previous lines into a fresh cart", func(t *testing.T) {
		p := product("10.00", "5")
		f := newCartFixture(p)

		err := f.registry.With(terminalID, func(s *usecase.TerminalSession) error {
			s.LastSale = &sale.Snapshot{
				Items: []sale.Item{{
					ProductID: p.ID,
					Name:      p.Name,
					UnitPrice: p.UnitPrice,
					Quantity:  d("2"),
					Unit:      p.Unit,
				}},
				CapturedAt: checkoutTime,
			}
			return nil
		})
		require.NoError(t, err)

		view, err := f.commands.RepeatLastSale(ctx, f.identity, terminalID)

		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, p.ID, view.Lines[0].ProductID)
		assert.True(t, view.GlobalDiscountPercent.IsZero(), "discounts never carry over")
	})
}
