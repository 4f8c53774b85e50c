// Package catalog holds the read-only product and register-session views the
// terminal works against. Rows are owned by the back office; the terminal
// only loads them through the tiered loader chain.
package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uuid.UUID
	Code          string // barcode / internal short code as printed on labels
	Name          string
	UnitPrice     decimal.Decimal
	Unit          string // display unit, e.g. "UN", "KG"
	Category      string
	StockQuantity decimal.Decimal
}

// Session is the open cash-register session a terminal operates under.
type Session struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	TerminalID string
	OperatorID uuid.UUID
	OpenedAt   time.Time
}
