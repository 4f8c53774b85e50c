//go:build unit

package sale_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv-terminal/internal/domain/sale"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalizePayments(t *testing.T) {
	t.Run("flat legacy shape passes through", func(t *testing.T) {
		payments, err := sale.NormalizePayments([]sale.PaymentInput{{
			Method:            "credit",
			Amount:            d("25.00"),
			AuthorizationCode: "AUTH1",
			CardBrand:         "visa",
			Installments:      2,
		}})
		require.NoError(t, err)
		require.Len(t, payments, 1)

		assert.Equal(t, sale.PaymentCredit, payments[0].Method)
		assert.Equal(t, "AUTH1", payments[0].AuthorizationCode)
		assert.Equal(t, "visa", payments[0].CardBrand)
		assert.Equal(t, 2, payments[0].Installments)
	})

	t.Run("nested card block wins over flat fields", func(t *testing.T) {
		payments, err := sale.NormalizePayments([]sale.PaymentInput{{
			Method:            "credit",
			Amount:            d("25.00"),
			AuthorizationCode: "OLD",
			CardBrand:         "old-brand",
			Card: &sale.CardInput{
				AuthorizationCode: "NEW",
				Brand:             "mastercard",
				Installments:      3,
			},
		}})
		require.NoError(t, err)

		assert.Equal(t, "NEW", payments[0].AuthorizationCode)
		assert.Equal(t, "mastercard", payments[0].CardBrand)
		assert.Equal(t, 3, payments[0].Installments)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := sale.NormalizePayments([]sale.PaymentInput{{
			Method: "check",
			Amount: d("10.00"),
		}})
		assert.ErrorIs(t, err, sale.ErrUnknownPaymentMethod)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := sale.NormalizePayments([]sale.PaymentInput{{
			Method: "cash",
			Amount: d("0"),
		}})
		assert.ErrorIs(t, err, sale.ErrInvalidPaymentAmount)
	})

	t.Run("every accepted method", func(t *testing.T) {
		for _, m := range []string{"cash", "debit", "credit", "pix"} {
			_, err := sale.NormalizePayments([]sale.PaymentInput{{
				Method: m,
				Amount: d("1.00"),
			}})
			assert.NoError(t, err, "method %s", m)
		}
	})
}

func TestSnapshotCustomer(t *testing.T) {
	t.Run("credit payment carries the customer", func(t *testing.T) {
		s := sale.Snapshot{Payments: []sale.Payment{
			{Method: sale.PaymentCash, Amount: d("10.00")},
			{Method: sale.PaymentCredit, Amount: d("20.00"), CustomerCPF: "12345678909", CustomerName: "Maria"},
		}}

		cpf, name := s.Customer()
		assert.Equal(t, "12345678909", cpf)
		assert.Equal(t, "Maria", name)
	})

	t.Run("falls back to the snapshot fields", func(t *testing.T) {
		s := sale.Snapshot{
			CustomerCPF:  "98765432100",
			CustomerName: "João",
			Payments:     []sale.Payment{{Method: sale.PaymentPix, Amount: d("10.00")}},
		}

		cpf, name := s.Customer()
		assert.Equal(t, "98765432100", cpf)
		assert.Equal(t, "João", name)
	})
}

func TestDocumentRef(t *testing.T) {
	now := time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC)

	t.Run("offline ref is a provisional OFF number", func(t *testing.T) {
		ref := sale.NewOfflineRef(now)

		assert.True(t, ref.IsProvisional())
		assert.Contains(t, ref.Number, sale.OfflineNumberPrefix)
		assert.Empty(t, ref.FiscalDocID)
	})

	t.Run("training ref is a provisional TRN number", func(t *testing.T) {
		ref := sale.NewTrainingRef(now)

		assert.True(t, ref.IsProvisional())
		assert.Contains(t, ref.Number, sale.TrainingNumberPrefix)
	})

	t.Run("gateway-issued ref is final", func(t *testing.T) {
		ref := sale.DocumentRef{FiscalDocID: "doc-1", Number: "NFCE-000123"}
		assert.False(t, ref.IsProvisional())
	})
}
