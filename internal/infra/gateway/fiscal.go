// Package gateway holds the HTTP clients for the remote back-office
// services: fiscal sale creation and the catalog/session source of truth.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pdv-terminal/internal/domain/sale"
	"pdv-terminal/internal/pkg/config"
	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/usecase/commands"
)

// FiscalGateway creates the fiscal document (NFC-e) for a finalized sale.
// The finalizer calls it at most once per checkout; any error here sends the
// sale to the offline queue instead.
type FiscalGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewFiscalGateway(cfg config.FiscalConfig) *FiscalGateway {
	return &FiscalGateway{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

type createSaleResponse struct {
	FiscalDocID string `json:"fiscal_doc_id"`
	NFCeNumber  string `json:"nfce_number"`
}

func (g *FiscalGateway) CreateSale(ctx context.Context, req commands.CreateSaleRequest) (*sale.DocumentRef, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode sale request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/sales", bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build sale request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, errs.Wrap(err, "sale creation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errs.New(fmt.Sprintf("sale creation returned %d: %s", resp.StatusCode, payload))
	}

	var out createSaleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.Wrap(err, "failed to decode sale response")
	}
	return &sale.DocumentRef{
		FiscalDocID: out.FiscalDocID,
		Number:      out.NFCeNumber,
	}, nil
}
