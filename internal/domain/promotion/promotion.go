// Package promotion computes per-sale discounts from externally managed
// promotion definitions. Definitions are read-only input; everything here is
// pure computation over the current cart.
package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindBuyXPayY   Kind = "buy_x_pay_y"
	KindFixedPrice Kind = "fixed_price"
)

// Promotion mirrors the back-office promotion row. Scope is either an
// explicit product list or a category name; activation is bounded by an
// optional time window plus optional active weekdays.
type Promotion struct {
	ID         uuid.UUID
	Name       string
	Kind       Kind
	ProductIDs []uuid.UUID
	Category   string

	MinQuantity decimal.Decimal // percentage kind: minimum scoped quantity
	Percent     decimal.Decimal // percentage kind: 0 < p <= 100
	TakeQty     int64           // buy-x-pay-y kind: X
	PayQty      int64           // buy-x-pay-y kind: Y
	FixedPrice  decimal.Decimal // fixed-price kind

	StartsAt *time.Time
	EndsAt   *time.Time
	Weekdays []time.Weekday // empty means every day
}

// IsActiveAt evaluates the temporal window and weekday list against t.
func (p Promotion) IsActiveAt(t time.Time) bool {
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && t.After(*p.EndsAt) {
		return false
	}
	if len(p.Weekdays) == 0 {
		return true
	}
	for _, wd := range p.Weekdays {
		if wd == t.Weekday() {
			return true
		}
	}
	return false
}

// hasScope reports whether the promotion can match anything at all. A
// definition with neither products nor category is malformed and is skipped
// rather than rejected, so a bad back-office row can never break checkout.
func (p Promotion) hasScope() bool {
	return len(p.ProductIDs) > 0 || p.Category != ""
}

func (p Promotion) matches(l Line) bool {
	for _, id := range p.ProductIDs {
		if id == l.ProductID {
			return true
		}
	}
	return p.Category != "" && p.Category == l.Category
}
