package response

import (
	"time"

	"github.com/shopspring/decimal"

	"pdv-terminal/internal/usecase/commands"
)

type DocumentRefResponse struct {
	FiscalDocID string `json:"fiscalDocId,omitempty"`
	Number      string `json:"number"`
	Provisional bool   `json:"provisional"`
}

type CheckoutResponse struct {
	State      string              `json:"state"`
	Document   DocumentRefResponse `json:"document"`
	Total      decimal.Decimal     `json:"total"`
	CapturedAt time.Time           `json:"capturedAt"`
}

func FromCheckoutResult(result *commands.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		State: string(result.State),
		Document: DocumentRefResponse{
			FiscalDocID: result.Document.FiscalDocID,
			Number:      result.Document.Number,
			Provisional: result.Document.IsProvisional(),
		},
		Total:      result.Snapshot.Total,
		CapturedAt: result.Snapshot.CapturedAt,
	}
}
