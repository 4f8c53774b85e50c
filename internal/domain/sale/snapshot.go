// Package sale holds the immutable artifacts of a finalized checkout: the
// cart snapshot, normalized payments and the document reference handed back
// to the terminal for printing.
package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
)

// Item is one frozen sale line. Unlike a live cart line it never mutates:
// the snapshot outlives the cart, which is cleared before the remote call
// resolves.
type Item struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCredit PaymentMethod = "credit"
	PaymentPix    PaymentMethod = "pix"
)

// Payment is the normalized payment entry. Authorization data arrives from
// the terminal in two historical shapes (flat fields from older builds, a
// nested card block from current ones); NormalizePayments folds both into
// this one form at the boundary so nothing downstream sniffs shapes.
type Payment struct {
	Method            PaymentMethod   `json:"method"`
	Amount            decimal.Decimal `json:"amount"`
	AuthorizationCode string          `json:"authorization_code,omitempty"`
	CardBrand         string          `json:"card_brand,omitempty"`
	Installments      int             `json:"installments,omitempty"`
	CustomerCPF       string          `json:"customer_cpf,omitempty"`
	CustomerName      string          `json:"customer_name,omitempty"`
}

// CardInput is the current nested authorization shape.
type CardInput struct {
	AuthorizationCode string
	Brand             string
	Installments      int
}

// PaymentInput is the union wire shape. Either the flat legacy fields or
// Card is populated, never both; Card wins when both are present.
type PaymentInput struct {
	Method            string
	Amount            decimal.Decimal
	AuthorizationCode string
	CardBrand         string
	Installments      int
	Card              *CardInput
	CustomerCPF       string
	CustomerName      string
}

func NormalizePayments(inputs []PaymentInput) ([]Payment, error) {
	out := make([]Payment, 0, len(inputs))
	for _, in := range inputs {
		method := PaymentMethod(in.Method)
		switch method {
		case PaymentCash, PaymentDebit, PaymentCredit, PaymentPix:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, in.Method)
		}
		if !in.Amount.IsPositive() {
			return nil, ErrInvalidPaymentAmount
		}

		p := Payment{
			Method:            method,
			Amount:            in.Amount,
			AuthorizationCode: in.AuthorizationCode,
			CardBrand:         in.CardBrand,
			Installments:      in.Installments,
			CustomerCPF:       in.CustomerCPF,
			CustomerName:      in.CustomerName,
		}
		if in.Card != nil {
			p.AuthorizationCode = in.Card.AuthorizationCode
			p.CardBrand = in.Card.Brand
			p.Installments = in.Card.Installments
		}
		out = append(out, p)
	}
	return out, nil
}

// Snapshot is the immutable record captured at the moment of checkout.
type Snapshot struct {
	Items               []Item
	Subtotal            decimal.Decimal
	GlobalDiscountValue decimal.Decimal
	PromotionSavings    decimal.Decimal
	Total               decimal.Decimal
	Payments            []Payment
	CustomerCPF         string
	CustomerName        string
	CapturedAt          time.Time
}

// Customer returns the CPF/name attached to the first credit payment entry,
// which is where the terminal records identified customers.
func (s Snapshot) Customer() (cpf, name string) {
	for _, p := range s.Payments {
		if p.Method == PaymentCredit && (p.CustomerCPF != "" || p.CustomerName != "") {
			return p.CustomerCPF, p.CustomerName
		}
	}
	return s.CustomerCPF, s.CustomerName
}
