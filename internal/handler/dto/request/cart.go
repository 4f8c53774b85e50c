package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

type ScanRequest struct {
	Code string `json:"code" binding:"required"`
}

type UpdateQuantityRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

type LineDiscountRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Percent   decimal.Decimal `json:"percent"`
}

type GlobalDiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}
