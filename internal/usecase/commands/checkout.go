package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/cart"
	"pdv-terminal/internal/domain/promotion"
	"pdv-terminal/internal/domain/sale"
	"pdv-terminal/internal/pkg/clock"
	"pdv-terminal/internal/pkg/config"
	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/usecase"
	"pdv-terminal/internal/usecase/queries"
)

var (
	ErrMissingIdentity    = errs.New("missing company or operator identity")
	ErrEmptyCart          = errs.New("cart is empty")
	ErrInvalidPayment     = errs.New("invalid payment data")
	ErrOfflineQueueFailed = errs.New("failed to queue offline sale")
)

const (
	offlineSalePriority    = 1
	offlineSaleMaxAttempts = 5
)

// CheckoutState is the terminal state of one finalization attempt. A new
// checkout always starts a fresh state machine; there are no transitions out
// of a terminal state.
type CheckoutState string

const (
	StateOnline        CheckoutState = "online"
	StateOfflineQueued CheckoutState = "offline_queued"
	StateSimulated     CheckoutState = "simulated"
)

// SaleGateway is the remote sale-creation contract (fiscal document
// emission). Called at most once per checkout.
type SaleGateway interface {
	CreateSale(ctx context.Context, req CreateSaleRequest) (*sale.DocumentRef, error)
}

// PendingOperationRepository is the durable offline queue. Fire-and-forget
// from the finalizer's perspective: retry/backoff belongs to the sync worker.
type PendingOperationRepository interface {
	Enqueue(ctx context.Context, companyID uuid.UUID, op sale.PendingOperation) error
}

// CreateSaleRequest is the wire payload of the sale-creation contract. The
// offline queue stores the identical shape so the sync worker can replay it
// against the same endpoint.
type CreateSaleRequest struct {
	CompanyID     uuid.UUID       `json:"company_id"`
	OperatorID    uuid.UUID       `json:"operator_id"`
	SessionID     *uuid.UUID      `json:"session_id,omitempty"`
	Items         []sale.Item     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Payments      []sale.Payment  `json:"payments"`
	CustomerCPF   string          `json:"customer_cpf,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
}

type FinalizeRequest struct {
	Payments []sale.PaymentInput
}

type CheckoutResult struct {
	State    CheckoutState
	Document sale.DocumentRef
	Snapshot sale.Snapshot
}

type CheckoutCommands interface {
	Finalize(ctx context.Context, id Identity, terminalID string, req FinalizeRequest) (*CheckoutResult, error)
}

type checkoutCommandsImpl struct {
	registry   *usecase.CartRegistry
	promotions queries.PromotionQueries
	sessions   queries.SessionQueries
	gateway    SaleGateway
	pending    PendingOperationRepository
	clock      clock.Clock
	cfg        config.TerminalConfig
}

func NewCheckoutCommands(
	registry *usecase.CartRegistry,
	promotions queries.PromotionQueries,
	sessions queries.SessionQueries,
	gateway SaleGateway,
	pending PendingOperationRepository,
	clock clock.Clock,
	cfg config.TerminalConfig,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		registry:   registry,
		promotions: promotions,
		sessions:   sessions,
		gateway:    gateway,
		pending:    pending,
		clock:      clock,
		cfg:        cfg,
	}
}

// Finalize runs the checkout state machine: validate, snapshot, then exactly
// one of the simulated / online / offline-queued terminal states. The online
// path is attempted at most once; its errors are logged and absorbed by the
// offline fallback so a validated, non-empty cart can never end in a
// user-visible failure. The cart is cleared in every terminal state.
func (c *checkoutCommandsImpl) Finalize(ctx context.Context, id Identity, terminalID string, req FinalizeRequest) (*CheckoutResult, error) {
	if !id.IsComplete() {
		return nil, ErrMissingIdentity
	}

	payments, err := sale.NormalizePayments(req.Payments)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPayment)
	}

	var result *CheckoutResult
	err = c.registry.With(terminalID, func(s *usecase.TerminalSession) error {
		if s.Cart.IsEmpty() {
			return ErrEmptyCart
		}

		now := c.clock.Now()
		snapshot := c.buildSnapshot(ctx, id, s.Cart, payments, now)

		// Keep the snapshot for "repeat last sale" before any mutation.
		s.LastSale = &snapshot

		if c.cfg.TrainingMode {
			s.Cart.Clear()
			result = &CheckoutResult{
				State:    StateSimulated,
				Document: sale.NewTrainingRef(now),
				Snapshot: snapshot,
			}
			return nil
		}

		payload := c.buildPayload(ctx, id, terminalID, snapshot)

		if !c.cfg.ForceOffline {
			doc, createErr := c.gateway.CreateSale(ctx, payload)
			if createErr == nil {
				s.Cart.Clear()
				result = &CheckoutResult{
					State:    StateOnline,
					Document: *doc,
					Snapshot: snapshot,
				}
				return nil
			}
			slog.Warn("online sale creation failed, queuing offline",
				"terminal_id", terminalID, "error", createErr.Error())
		}

		if enqueueErr := c.enqueueOffline(ctx, id.CompanyID, payload); enqueueErr != nil {
			// The one path with no further fallback. The cart is left
			// intact so the operator can retry the checkout.
			return errs.Mark(enqueueErr, ErrOfflineQueueFailed)
		}

		s.Cart.Clear()
		result = &CheckoutResult{
			State:    StateOfflineQueued,
			Document: sale.NewOfflineRef(now),
			Snapshot: snapshot,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *checkoutCommandsImpl) buildSnapshot(ctx context.Context, id Identity, crt *cart.Cart, payments []sale.Payment, now time.Time) sale.Snapshot {
	promos, err := c.promotions.ActiveAt(ctx, id.CompanyID, now)
	if err != nil {
		slog.Warn("promotions unavailable at checkout", "company_id", id.CompanyID, "error", err.Error())
		promos = nil
	}
	applied := promotion.Apply(now, promos, crt.PromotionLines())
	savings := promotion.TotalSavings(applied)

	lines := crt.Lines()
	items := make([]sale.Item, len(lines))
	for i, l := range lines {
		items[i] = sale.Item{
			ProductID:       l.ProductID(),
			Name:            l.Name(),
			UnitPrice:       l.UnitPrice(),
			Quantity:        l.Quantity(),
			Unit:            l.Unit(),
			DiscountPercent: crt.LineDiscount(l.ProductID()),
		}
	}

	return sale.Snapshot{
		Items:               items,
		Subtotal:            crt.Subtotal(),
		GlobalDiscountValue: crt.GlobalDiscountValue(),
		PromotionSavings:    savings,
		Total:               crt.Total(savings),
		Payments:            payments,
		CapturedAt:          now,
	}
}

func (c *checkoutCommandsImpl) buildPayload(ctx context.Context, id Identity, terminalID string, snapshot sale.Snapshot) CreateSaleRequest {
	var sessionID *uuid.UUID
	if session, err := c.sessions.Current(ctx, id.CompanyID, terminalID); err == nil {
		sessionID = &session.ID
	} else {
		slog.Warn("register session unresolved at checkout", "terminal_id", terminalID, "error", err.Error())
	}

	paymentMethod := ""
	if len(snapshot.Payments) > 0 {
		paymentMethod = string(snapshot.Payments[0].Method)
	}
	cpf, name := snapshot.Customer()

	return CreateSaleRequest{
		CompanyID:     id.CompanyID,
		OperatorID:    id.OperatorID,
		SessionID:     sessionID,
		Items:         snapshot.Items,
		Total:         snapshot.Total,
		PaymentMethod: paymentMethod,
		Payments:      snapshot.Payments,
		CustomerCPF:   cpf,
		CustomerName:  name,
	}
}

func (c *checkoutCommandsImpl) enqueueOffline(ctx context.Context, companyID uuid.UUID, payload CreateSaleRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.pending.Enqueue(ctx, companyID, sale.PendingOperation{
		Type:        "sale",
		Payload:     body,
		Priority:    offlineSalePriority,
		MaxAttempts: offlineSaleMaxAttempts,
	})
}
