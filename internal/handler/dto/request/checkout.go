package request

import (
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/sale"
)

// CardPayload is the nested authorization block sent by current terminal
// builds.
type CardPayload struct {
	AuthorizationCode string `json:"authorization_code"`
	Brand             string `json:"brand"`
	Installments      int    `json:"installments"`
}

// PaymentPayload accepts both historical payment shapes: flat authorization
// fields from older builds, or the nested card block. Normalization happens
// in the sale domain, not here.
type PaymentPayload struct {
	Method            string          `json:"method" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	AuthorizationCode string          `json:"authorization_code"`
	CardBrand         string          `json:"card_brand"`
	Installments      int             `json:"installments"`
	Card              *CardPayload    `json:"card"`
	CustomerCPF       string          `json:"customer_cpf"`
	CustomerName      string          `json:"customer_name"`
}

type CheckoutRequest struct {
	Payments []PaymentPayload `json:"payments" binding:"required,min=1"`
}

func (r CheckoutRequest) ToInputs() []sale.PaymentInput {
	inputs := make([]sale.PaymentInput, len(r.Payments))
	for i, p := range r.Payments {
		inputs[i] = sale.PaymentInput{
			Method:            p.Method,
			Amount:            p.Amount,
			AuthorizationCode: p.AuthorizationCode,
			CardBrand:         p.CardBrand,
			Installments:      p.Installments,
			CustomerCPF:       p.CustomerCPF,
			CustomerName:      p.CustomerName,
		}
		if p.Card != nil {
			inputs[i].Card = &sale.CardInput{
				AuthorizationCode: p.Card.AuthorizationCode,
				Brand:             p.Card.Brand,
				Installments:      p.Card.Installments,
			}
		}
	}
	return inputs
}
