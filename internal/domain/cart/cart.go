// Package cart owns the in-memory state of one terminal's active sale.
package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/domain/promotion"
)

var (
	ErrOutOfStock        = errors.New("product out of stock")
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")
	ErrLineNotFound      = errors.New("cart line not found")
	ErrInvalidDiscount   = errors.New("discount percent must be between 0 and 100")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrUnpricedProduct   = errors.New("product has no unit price")
)

// quantityPlaces bounds weighed quantities to 3 decimal places after every
// arithmetic update so repeated scale scans of the same product cannot
// accumulate drift.
const quantityPlaces = 3

// Line is one row of the active sale. At most one line exists per product;
// its quantity is always positive while the line is present.
type Line struct {
	productID uuid.UUID
	name      string
	unitPrice decimal.Decimal
	quantity  decimal.Decimal
	unit      string
	category  string
}

func (l Line) ProductID() uuid.UUID       { return l.productID }
func (l Line) Name() string               { return l.name }
func (l Line) UnitPrice() decimal.Decimal { return l.unitPrice }
func (l Line) Quantity() decimal.Decimal  { return l.quantity }
func (l Line) Unit() string               { return l.unit }
func (l Line) Category() string           { return l.category }

// Cart is single-owner state: one terminal session writes it, guarded by the
// session registry. Discount state lives beside the lines and only resets on
// Clear, not when an individual line is removed.
type Cart struct {
	lines          []Line
	lineDiscounts  map[uuid.UUID]decimal.Decimal
	globalDiscount decimal.Decimal
}

func New() *Cart {
	return &Cart{
		lineDiscounts: make(map[uuid.UUID]decimal.Decimal),
	}
}

// AddProduct adds one unit of p, incrementing an existing line if present.
// The cart is left untouched on any error.
func (c *Cart) AddProduct(p catalog.Product) error {
	return c.add(p, decimal.NewFromInt(1))
}

// AddWeighted adds a scale-scanned weight in kilograms.
func (c *Cart) AddWeighted(p catalog.Product, weightKg decimal.Decimal) error {
	if !weightKg.IsPositive() {
		return ErrInvalidQuantity
	}
	return c.add(p, weightKg)
}

// AddPriced adds a price-embedded scale scan: the quantity is derived from
// the label's total price at the product's unit price.
func (c *Cart) AddPriced(p catalog.Product, total decimal.Decimal) error {
	if !total.IsPositive() {
		return ErrInvalidQuantity
	}
	if !p.UnitPrice.IsPositive() {
		return ErrUnpricedProduct
	}
	qty := total.DivRound(p.UnitPrice, quantityPlaces)
	if !qty.IsPositive() {
		return ErrInvalidQuantity
	}
	return c.add(p, qty)
}

func (c *Cart) add(p catalog.Product, qty decimal.Decimal) error {
	if !p.StockQuantity.IsPositive() {
		return ErrOutOfStock
	}

	if i := c.index(p.ID); i >= 0 {
		next := c.lines[i].quantity.Add(qty).Round(quantityPlaces)
		if next.GreaterThan(p.StockQuantity) {
			return ErrInsufficientStock
		}
		c.lines[i].quantity = next
		return nil
	}

	if qty.GreaterThan(p.StockQuantity) {
		return ErrInsufficientStock
	}
	c.lines = append(c.lines, Line{
		productID: p.ID,
		name:      p.Name,
		unitPrice: p.UnitPrice,
		quantity:  qty.Round(quantityPlaces),
		unit:      p.Unit,
		category:  p.Category,
	})
	return nil
}

// NewLine rebuilds a line from previously captured sale data. Used by
// "repeat last sale", which restores lines verbatim instead of re-checking
// stock.
func NewLine(productID uuid.UUID, name string, unitPrice, quantity decimal.Decimal, unit, category string) Line {
	return Line{
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity.Round(quantityPlaces),
		unit:      unit,
		category:  category,
	}
}

// Restore replaces the cart contents with the given lines and resets all
// discount state, mirroring what Clear does before a fresh sale.
func (c *Cart) Restore(lines []Line) {
	c.Clear()
	c.lines = append(c.lines, lines...)
}

// UpdateQuantity adds delta to the line's quantity. A line reaching zero or
// below is removed, never kept as a zero row.
func (c *Cart) UpdateQuantity(productID uuid.UUID, delta decimal.Decimal) error {
	i := c.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}

	next := c.lines[i].quantity.Add(delta).Round(quantityPlaces)
	if !next.IsPositive() {
		c.removeAt(i)
		return nil
	}
	c.lines[i].quantity = next
	return nil
}

func (c *Cart) Remove(productID uuid.UUID) error {
	i := c.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.removeAt(i)
	return nil
}

// Clear empties the lines and resets both per-line and global discount state.
func (c *Cart) Clear() {
	c.lines = nil
	c.lineDiscounts = make(map[uuid.UUID]decimal.Decimal)
	c.globalDiscount = decimal.Zero
}

// SetLineDiscount records a per-product discount percent. The entry outlives
// line removal; only Clear resets it.
func (c *Cart) SetLineDiscount(productID uuid.UUID, percent decimal.Decimal) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	c.lineDiscounts[productID] = percent
	return nil
}

func (c *Cart) SetGlobalDiscount(percent decimal.Decimal) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	c.globalDiscount = percent
	return nil
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) LineDiscount(productID uuid.UUID) decimal.Decimal {
	return c.lineDiscounts[productID]
}

func (c *Cart) GlobalDiscountPercent() decimal.Decimal {
	return c.globalDiscount
}

// Subtotal sums every line at its unit price net of the line discount, each
// line rounded to centavos the way it prints on the receipt.
func (c *Cart) Subtotal() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	subtotal := decimal.Zero
	for _, l := range c.lines {
		factor := hundred.Sub(c.lineDiscounts[l.productID]).Div(hundred)
		subtotal = subtotal.Add(l.unitPrice.Mul(factor).Mul(l.quantity).Round(2))
	}
	return subtotal
}

func (c *Cart) GlobalDiscountValue() decimal.Decimal {
	return c.Subtotal().Mul(c.globalDiscount).Div(decimal.NewFromInt(100)).Round(2)
}

// Total is subtotal minus global discount minus promotion savings, floored
// at zero: discounts can never drive a sale negative.
func (c *Cart) Total(promoSavings decimal.Decimal) decimal.Decimal {
	total := c.Subtotal().Sub(c.GlobalDiscountValue()).Sub(promoSavings)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// PromotionLines projects the cart into the promotion engine's input shape.
func (c *Cart) PromotionLines() []promotion.Line {
	out := make([]promotion.Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = promotion.Line{
			ProductID: l.productID,
			Name:      l.name,
			UnitPrice: l.unitPrice,
			Quantity:  l.quantity,
			Category:  l.category,
		}
	}
	return out
}

func (c *Cart) index(productID uuid.UUID) int {
	for i, l := range c.lines {
		if l.productID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func validatePercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscount
	}
	return nil
}
