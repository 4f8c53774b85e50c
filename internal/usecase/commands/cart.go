package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/barcode"
	"pdv-terminal/internal/domain/cart"
	"pdv-terminal/internal/domain/promotion"
	"pdv-terminal/internal/pkg/clock"
	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/usecase"
	"pdv-terminal/internal/usecase/queries"
)

var (
	ErrProductNotFound = errs.New("product not found")
	ErrNoLastSale      = errs.New("no previous sale to repeat")
)

type CartCommands interface {
	View(ctx context.Context, id Identity, terminalID string) (*CartView, error)
	AddProduct(ctx context.Context, id Identity, terminalID string, productID uuid.UUID) (*CartView, error)
	Scan(ctx context.Context, id Identity, terminalID, code string) (*CartView, error)
	UpdateQuantity(ctx context.Context, id Identity, terminalID string, productID uuid.UUID, delta decimal.Decimal) (*CartView, error)
	RemoveItem(ctx context.Context, id Identity, terminalID string, productID uuid.UUID) (*CartView, error)
	ClearCart(ctx context.Context, id Identity, terminalID string) (*CartView, error)
	SetLineDiscount(ctx context.Context, id Identity, terminalID string, productID uuid.UUID, percent decimal.Decimal) (*CartView, error)
	SetGlobalDiscount(ctx context.Context, id Identity, terminalID string, percent decimal.Decimal) (*CartView, error)
	RepeatLastSale(ctx context.Context, id Identity, terminalID string) (*CartView, error)
}

type cartCommandsImpl struct {
	registry   *usecase.CartRegistry
	products   queries.ProductQueries
	promotions queries.PromotionQueries
	clock      clock.Clock
}

func NewCartCommands(
	registry *usecase.CartRegistry,
	products queries.ProductQueries,
	promotions queries.PromotionQueries,
	clock clock.Clock,
) CartCommands {
	return &cartCommandsImpl{
		registry:   registry,
		products:   products,
		promotions: promotions,
		clock:      clock,
	}
}

func (c *cartCommandsImpl) View(ctx context.Context, id Identity, terminalID string) (*CartView, error) {
	return c.withCart(ctx, id, terminalID, func(_ *cart.Cart) error { return nil })
}

func (c *cartCommandsImpl) AddProduct(ctx context.Context, id Identity, terminalID string, productID uuid.UUID) (*CartView, error) {
	product, err := c.products.FindByID(ctx, id.CompanyID, productID)
	if err != nil {
		return nil, errs.Mark(err, ErrProductNotFound)
	}
	return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
		return crt.AddProduct(*product)
	})
}

// Scan resolves a raw scanned string: scale labels decode to a weighted or
// price-derived add, anything else falls through to a plain catalog lookup.
// A failed lookup surfaces not-found but the scan stays consumed; the caller
// never re-matches the same string.
func (c *cartCommandsImpl) Scan(ctx context.Context, id Identity, terminalID, code string) (*CartView, error) {
	if decoded, ok := barcode.Parse(code); ok {
		product, err := c.products.FindByCode(ctx, id.CompanyID, decoded.ProductCode)
		if err != nil {
			return nil, errs.Mark(err, ErrProductNotFound)
		}
		return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
			if decoded.IsWeight {
				return crt.AddWeighted(*product, decoded.WeightKg)
			}
			return crt.AddPriced(*product, decoded.Price)
		})
	}

	product, err := c.products.FindByCode(ctx, id.CompanyID, code)
	if err != nil {
		return nil, errs.Mark(err, ErrProductNotFound)
	}
	return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
		return crt.AddProduct(*product)
	})
}

func (c *cartCommandsImpl) UpdateQuantity(ctx context.Context, id Identity, terminalID string, productID uuid.UUID, delta decimal.Decimal) (*CartView, error) {
	return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
		return crt.UpdateQuantity(productID, delta)
	})
}

func (c *cartCommandsImpl) RemoveItem(ctx context.Context, id Identity, terminalID string, productID uuid.UUID) (*CartView, error) {
	return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
		return crt.Remove(productID)
	})
}

func (c *cartCommandsImpl) ClearCart(ctx context.Context, id Identity, terminalID string) (*CartView, error) {
	return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
		crt.Clear()
		return nil
	})
}

func (c *cartCommandsImpl) SetLineDiscount(ctx context.Context, id Identity, terminalID string, productID uuid.UUID, percent decimal.Decimal) (*CartView, error) {
	return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
		return crt.SetLineDiscount(productID, percent)
	})
}

func (c *cartCommandsImpl) SetGlobalDiscount(ctx context.Context, id Identity, terminalID string, percent decimal.Decimal) (*CartView, error) {
	return c.withCart(ctx, id, terminalID, func(crt *cart.Cart) error {
		return crt.SetGlobalDiscount(percent)
	})
}

// RepeatLastSale reloads the previous snapshot's lines into a fresh cart.
// Discount state starts clean; only the lines come back.
func (c *cartCommandsImpl) RepeatLastSale(ctx context.Context, id Identity, terminalID string) (*CartView, error) {
	var view *CartView
	err := c.registry.With(terminalID, func(s *usecase.TerminalSession) error {
		if s.LastSale == nil {
			return ErrNoLastSale
		}
		lines := make([]cart.Line, len(s.LastSale.Items))
		for i, item := range s.LastSale.Items {
			lines[i] = cart.NewLine(item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.Unit, "")
		}
		s.Cart.Restore(lines)
		view = c.buildView(ctx, id, s.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (c *cartCommandsImpl) withCart(ctx context.Context, id Identity, terminalID string, fn func(*cart.Cart) error) (*CartView, error) {
	var view *CartView
	err := c.registry.With(terminalID, func(s *usecase.TerminalSession) error {
		if fnErr := fn(s.Cart); fnErr != nil {
			return fnErr
		}
		view = c.buildView(ctx, id, s.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// buildView recomputes the promotion evaluation for the current cart state.
// Promotions failing to load degrade to none: a broken promotion source must
// never block selling.
func (c *cartCommandsImpl) buildView(ctx context.Context, id Identity, crt *cart.Cart) *CartView {
	now := c.clock.Now()

	promos, err := c.promotions.ActiveAt(ctx, id.CompanyID, now)
	if err != nil {
		slog.Warn("promotions unavailable, selling without discounts", "company_id", id.CompanyID, "error", err.Error())
		promos = nil
	}
	applied := promotion.Apply(now, promos, crt.PromotionLines())
	savings := promotion.TotalSavings(applied)

	lines := crt.Lines()
	views := make([]CartLineView, len(lines))
	for i, l := range lines {
		views[i] = CartLineView{
			ProductID:       l.ProductID(),
			Name:            l.Name(),
			UnitPrice:       l.UnitPrice(),
			Quantity:        l.Quantity(),
			Unit:            l.Unit(),
			DiscountPercent: crt.LineDiscount(l.ProductID()),
		}
	}

	return &CartView{
		Lines:                 views,
		GlobalDiscountPercent: crt.GlobalDiscountPercent(),
		AppliedPromotions:     applied,
		Subtotal:              crt.Subtotal(),
		GlobalDiscountValue:   crt.GlobalDiscountValue(),
		PromotionSavings:      savings,
		Total:                 crt.Total(savings),
	}
}
