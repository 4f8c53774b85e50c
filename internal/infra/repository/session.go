package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/infra"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

const findOpenSessionSQL = `
SELECT id::text, company_id::text, terminal_id, operator_id::text, opened_at
FROM register_sessions
WHERE company_id = $1 AND terminal_id = $2 AND closed_at IS NULL
ORDER BY opened_at DESC
LIMIT 1`

// FindOpen returns (nil, nil) when no register is open on the terminal; the
// loader treats that as a replica miss, not a failure.
func (r *SessionRepository) FindOpen(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error) {
	row := r.db.QueryRow(ctx, findOpenSessionSQL, companyID.String(), terminalID)

	var (
		idText, companyText, termID, operatorText string
		session                                   catalog.Session
	)
	err := row.Scan(&idText, &companyText, &termID, &operatorText, &session.OpenedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find open session", err)
	}

	if session.ID, err = uuid.Parse(idText); err != nil {
		return nil, infra.WrapRepoErr("failed to parse session id", err)
	}
	if session.CompanyID, err = uuid.Parse(companyText); err != nil {
		return nil, infra.WrapRepoErr("failed to parse session company id", err)
	}
	if session.OperatorID, err = uuid.Parse(operatorText); err != nil {
		return nil, infra.WrapRepoErr("failed to parse session operator id", err)
	}
	session.TerminalID = termID
	return &session, nil
}

const upsertSessionSQL = `
INSERT INTO register_sessions (id, company_id, terminal_id, operator_id, opened_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	operator_id = EXCLUDED.operator_id,
	opened_at = EXCLUDED.opened_at,
	closed_at = NULL`

// Save mirrors a session fetched from the remote tier into the replica.
func (r *SessionRepository) Save(ctx context.Context, session *catalog.Session) error {
	_, err := r.db.Exec(ctx, upsertSessionSQL,
		session.ID.String(), session.CompanyID.String(), session.TerminalID,
		session.OperatorID.String(), session.OpenedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save session", err)
	}
	return nil
}
