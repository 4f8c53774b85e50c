package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is the engine's view of one cart row. UnitPrice is the undiscounted
// catalog price; manual line discounts are settled by the cart, not here.
type Line struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
	Category  string
}

// Applied reports one promotion that produced savings on the current cart.
type Applied struct {
	PromotionID  uuid.UUID
	Name         string
	ProductIDs   []uuid.UUID
	TotalSavings decimal.Decimal
}

// Apply computes the savings of every promotion active at now against lines.
//
// Overlap policy: promotions that scope the same line are each computed
// against the full scoped quantity and their savings are summed. Whether a
// single line should instead get only its best promotion is an open product
// question; the current stacking behavior is pinned by TestApplyOverlap.
//
// Output carries one Applied per promotion with nonzero savings, in input
// order. Pure and deterministic: no clock reads, no I/O, no retained state.
func Apply(now time.Time, promos []Promotion, lines []Line) []Applied {
	var out []Applied
	for _, p := range promos {
		if !p.IsActiveAt(now) || !p.hasScope() {
			continue
		}

		scoped := make([]Line, 0, len(lines))
		for _, l := range lines {
			if p.matches(l) {
				scoped = append(scoped, l)
			}
		}
		if len(scoped) == 0 {
			continue
		}

		var savings decimal.Decimal
		switch p.Kind {
		case KindPercentage:
			savings = percentageSavings(p, scoped)
		case KindBuyXPayY:
			savings = buyXPayYSavings(p, scoped)
		case KindFixedPrice:
			savings = fixedPriceSavings(p, scoped)
		default:
			continue
		}

		if !savings.IsPositive() {
			continue
		}

		ids := make([]uuid.UUID, len(scoped))
		for i, l := range scoped {
			ids[i] = l.ProductID
		}
		out = append(out, Applied{
			PromotionID:  p.ID,
			Name:         p.Name,
			ProductIDs:   ids,
			TotalSavings: savings.Round(2),
		})
	}
	return out
}

// TotalSavings sums the savings of every applied promotion.
func TotalSavings(applied []Applied) decimal.Decimal {
	total := decimal.Zero
	for _, a := range applied {
		total = total.Add(a.TotalSavings)
	}
	return total
}

func percentageSavings(p Promotion, scoped []Line) decimal.Decimal {
	if !p.Percent.IsPositive() || p.Percent.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero
	}

	qty := decimal.Zero
	subtotal := decimal.Zero
	for _, l := range scoped {
		qty = qty.Add(l.Quantity)
		subtotal = subtotal.Add(l.UnitPrice.Mul(l.Quantity))
	}
	if qty.LessThan(p.MinQuantity) {
		return decimal.Zero
	}
	return subtotal.Mul(p.Percent).Div(decimal.NewFromInt(100))
}

// buyXPayYSavings groups whole eligible units across all scoped lines; every
// full group of X units yields X-Y free units priced at the lowest unit price
// in scope (first line wins ties). Fractional weighed quantities only count
// by their whole part.
func buyXPayYSavings(p Promotion, scoped []Line) decimal.Decimal {
	if p.TakeQty <= 0 || p.PayQty <= 0 || p.PayQty >= p.TakeQty {
		return decimal.Zero
	}

	var units int64
	lowest := scoped[0].UnitPrice
	for _, l := range scoped {
		units += l.Quantity.IntPart()
		if l.UnitPrice.LessThan(lowest) {
			lowest = l.UnitPrice
		}
	}

	freeUnits := (units / p.TakeQty) * (p.TakeQty - p.PayQty)
	if freeUnits == 0 {
		return decimal.Zero
	}
	return lowest.Mul(decimal.NewFromInt(freeUnits))
}

func fixedPriceSavings(p Promotion, scoped []Line) decimal.Decimal {
	if p.FixedPrice.IsNegative() {
		return decimal.Zero
	}

	savings := decimal.Zero
	for _, l := range scoped {
		if p.FixedPrice.LessThan(l.UnitPrice) {
			savings = savings.Add(l.UnitPrice.Sub(p.FixedPrice).Mul(l.Quantity))
		}
	}
	return savings
}
