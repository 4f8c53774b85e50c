package response

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/usecase/commands"
)

type CartLineResponse struct {
	ProductID       uuid.UUID       `json:"productId"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

type AppliedPromotionResponse struct {
	PromotionID  uuid.UUID       `json:"promotionId"`
	Name         string          `json:"name"`
	ProductIDs   []uuid.UUID     `json:"productIds"`
	TotalSavings decimal.Decimal `json:"totalSavings"`
}

type CartResponse struct {
	Lines                 []CartLineResponse         `json:"lines"`
	GlobalDiscountPercent decimal.Decimal            `json:"globalDiscountPercent"`
	AppliedPromotions     []AppliedPromotionResponse `json:"appliedPromotions"`
	Subtotal              decimal.Decimal            `json:"subtotal"`
	GlobalDiscountValue   decimal.Decimal            `json:"globalDiscountValue"`
	PromotionSavings      decimal.Decimal            `json:"promotionSavings"`
	Total                 decimal.Decimal            `json:"total"`
}

func FromCartView(view *commands.CartView) (*CartResponse, error) {
	var resp CartResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	if resp.Lines == nil {
		resp.Lines = []CartLineResponse{}
	}
	if resp.AppliedPromotions == nil {
		resp.AppliedPromotions = []AppliedPromotionResponse{}
	}
	return &resp, nil
}
