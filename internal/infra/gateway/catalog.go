package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/pkg/config"
	"pdv-terminal/internal/pkg/errs"
)

// CatalogGateway is the slowest tier of the loader chain: the back-office
// catalog/session service.
type CatalogGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewCatalogGateway(cfg config.CatalogConfig) *CatalogGateway {
	return &CatalogGateway{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

type productPayload struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Unit          string          `json:"unit"`
	Category      string          `json:"category"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
}

type sessionPayload struct {
	ID         uuid.UUID `json:"id"`
	CompanyID  uuid.UUID `json:"company_id"`
	TerminalID string    `json:"terminal_id"`
	OperatorID uuid.UUID `json:"operator_id"`
	OpenedAt   time.Time `json:"opened_at"`
}

func (g *CatalogGateway) FetchProducts(ctx context.Context, companyID uuid.UUID, limit int32) ([]catalog.Product, error) {
	url := fmt.Sprintf("%s/v1/companies/%s/products?limit=%d", g.baseURL, companyID, limit)

	var payload []productPayload
	if err := g.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(payload))
	for i, p := range payload {
		products[i] = catalog.Product{
			ID:            p.ID,
			Code:          p.Code,
			Name:          p.Name,
			UnitPrice:     p.UnitPrice,
			Unit:          p.Unit,
			Category:      p.Category,
			StockQuantity: p.StockQuantity,
		}
	}
	return products, nil
}

func (g *CatalogGateway) FetchSession(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error) {
	url := fmt.Sprintf("%s/v1/companies/%s/terminals/%s/session", g.baseURL, companyID, terminalID)

	var payload sessionPayload
	if err := g.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	return &catalog.Session{
		ID:         payload.ID,
		CompanyID:  payload.CompanyID,
		TerminalID: payload.TerminalID,
		OperatorID: payload.OperatorID,
		OpenedAt:   payload.OpenedAt,
	}, nil
}

func (g *CatalogGateway) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Wrap(err, "failed to build catalog request")
	}
	if g.apiKey != "" {
		req.Header.Set("X-API-Key", g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errs.New(fmt.Sprintf("catalog returned %d: %s", resp.StatusCode, payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(err, "failed to decode catalog response")
	}
	return nil
}
