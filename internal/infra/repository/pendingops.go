package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pdv-terminal/internal/domain/sale"
	"pdv-terminal/internal/infra"
	"pdv-terminal/internal/usecase/commands"
)

// PendingOperationRepository is the durable offline queue. Checkout only
// enqueues; the sync worker drains rows via PullPending and settles them
// with MarkDispatched / MarkFailed.
type PendingOperationRepository struct {
	db *pgxpool.Pool
}

func NewPendingOperationRepository(db *pgxpool.Pool) *PendingOperationRepository {
	return &PendingOperationRepository{db: db}
}

const enqueuePendingSQL = `
INSERT INTO pending_operations (id, company_id, op_type, payload, priority, max_attempts, attempts, status, created_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6, 0, 'pending', now())`

func (r *PendingOperationRepository) Enqueue(ctx context.Context, companyID uuid.UUID, op sale.PendingOperation) error {
	_, err := r.db.Exec(ctx, enqueuePendingSQL,
		uuid.New().String(), companyID.String(), op.Type, string(op.Payload), op.Priority, op.MaxAttempts,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue pending operation", err)
	}
	return nil
}

const pullPendingSQL = `
WITH claimed AS (
    UPDATE pending_operations
    SET status = 'processing'
    WHERE id IN (
        SELECT id
        FROM pending_operations
        WHERE status = 'pending' AND attempts < max_attempts
        ORDER BY priority, created_at
        LIMIT $1
        FOR UPDATE SKIP LOCKED)
    RETURNING id, company_id, op_type, payload, priority, attempts, max_attempts, created_at)
SELECT id::text, company_id::text, op_type, payload, priority, attempts, max_attempts, created_at
FROM claimed
ORDER BY priority, created_at`

// PullPending claims up to limit dispatchable rows, lowest priority number
// first, oldest first within a priority. The claim flips each row to
// processing in the same statement, so a concurrent drainer cannot pull the
// same row; MarkFailed returns a claimed row to the queue.
func (r *PendingOperationRepository) PullPending(ctx context.Context, limit int32) ([]commands.QueuedOperation, error) {
	rows, err := r.db.Query(ctx, pullPendingSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to pull pending operations", err)
	}
	defer rows.Close()

	var out []commands.QueuedOperation
	for rows.Next() {
		var (
			idText, companyText string
			row                 commands.QueuedOperation
		)
		err := rows.Scan(&idText, &companyText, &row.Type, &row.Payload,
			&row.Priority, &row.Attempts, &row.MaxAttempts, &row.CreatedAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan pending operation row", err)
		}
		if row.ID, err = uuid.Parse(idText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse pending operation id", err)
		}
		if row.CompanyID, err = uuid.Parse(companyText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse pending operation company id", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read pending operation rows", err)
	}
	return out, nil
}

const markDispatchedSQL = `
UPDATE pending_operations
SET status = 'dispatched', dispatched_at = now()
WHERE id = $1`

func (r *PendingOperationRepository) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, markDispatchedSQL, id.String())
	if err != nil {
		return infra.WrapRepoErr("failed to mark operation dispatched", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("pending operation not found", nil, infra.KindNotFound)
	}
	return nil
}

const markFailedSQL = `
UPDATE pending_operations
SET attempts = attempts + 1,
    status = CASE WHEN attempts + 1 >= max_attempts THEN 'exhausted' ELSE 'pending' END,
    last_error = $2
WHERE id = $1`

// MarkFailed records one failed attempt; the row leaves the queue once the
// attempt budget is spent.
func (r *PendingOperationRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	tag, err := r.db.Exec(ctx, markFailedSQL, id.String(), cause)
	if err != nil {
		return infra.WrapRepoErr("failed to mark operation failed", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("pending operation not found", nil, infra.KindNotFound)
	}
	return nil
}
