package commands

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/promotion"
)

// Identity is the authenticated context every terminal operation runs under.
type Identity struct {
	CompanyID  uuid.UUID
	OperatorID uuid.UUID
}

func (id Identity) IsComplete() bool {
	return id.CompanyID != uuid.Nil && id.OperatorID != uuid.Nil
}

type CartLineView struct {
	ProductID       uuid.UUID
	Name            string
	UnitPrice       decimal.Decimal
	Quantity        decimal.Decimal
	Unit            string
	DiscountPercent decimal.Decimal
}

// CartView is the terminal's rendering of the live cart: lines, discount
// state and the promotion evaluation recomputed for this read.
type CartView struct {
	Lines                 []CartLineView
	GlobalDiscountPercent decimal.Decimal
	AppliedPromotions     []promotion.Applied
	Subtotal              decimal.Decimal
	GlobalDiscountValue   decimal.Decimal
	PromotionSavings      decimal.Decimal
	Total                 decimal.Decimal
}
