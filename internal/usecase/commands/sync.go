package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pdv-terminal/internal/pkg/errs"
)

var errUnknownOperationType = errs.New("unknown pending operation type")

// QueuedOperation is one claimed row of the offline queue.
type QueuedOperation struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Type        string
	Payload     []byte
	Priority    int
	Attempts    int
	MaxAttempts int
	CreatedAt   time.Time
}

// PendingOperationQueue is the drain side of the offline queue.
type PendingOperationQueue interface {
	PullPending(ctx context.Context, limit int32) ([]QueuedOperation, error)
	MarkDispatched(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
}

type SyncCommands interface {
	DispatchPending(ctx context.Context, batchSize int32) (int, error)
}

type syncCommandsImpl struct {
	queue   PendingOperationQueue
	gateway SaleGateway
}

func NewSyncCommands(queue PendingOperationQueue, gateway SaleGateway) SyncCommands {
	return &syncCommandsImpl{
		queue:   queue,
		gateway: gateway,
	}
}

// DispatchPending replays one batch of queued sales against the remote
// gateway and reports how many were dispatched. A failed replay records the
// attempt and leaves the row queued until its attempts run out; rows never
// block each other.
func (s *syncCommandsImpl) DispatchPending(ctx context.Context, batchSize int32) (int, error) {
	ops, err := s.queue.PullPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, op := range ops {
		if err := s.replay(ctx, op); err != nil {
			slog.Warn("pending operation replay failed",
				"operation_id", op.ID, "attempts", op.Attempts+1, "error", err.Error())
			if markErr := s.queue.MarkFailed(ctx, op.ID, err.Error()); markErr != nil {
				slog.Error("failed to record replay failure", "operation_id", op.ID, "error", markErr.Error())
			}
			continue
		}
		if err := s.queue.MarkDispatched(ctx, op.ID); err != nil {
			slog.Error("failed to mark operation dispatched", "operation_id", op.ID, "error", err.Error())
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (s *syncCommandsImpl) replay(ctx context.Context, op QueuedOperation) error {
	if op.Type != "sale" {
		return errUnknownOperationType
	}

	var req CreateSaleRequest
	if err := json.Unmarshal(op.Payload, &req); err != nil {
		return err
	}

	_, err := s.gateway.CreateSale(ctx, req)
	return err
}
