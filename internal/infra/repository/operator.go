package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pdv-terminal/internal/infra"
	"pdv-terminal/internal/usecase/queries"
)

type OperatorRepository struct {
	db *pgxpool.Pool
}

func NewOperatorRepository(db *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{db: db}
}

const findOperatorByCodeSQL = `
SELECT id::text, company_id::text, code, name, pin_hash, role, is_active
FROM operators
WHERE code = $1`

func (r *OperatorRepository) FindByCode(ctx context.Context, code string) (*queries.OperatorView, string, error) {
	return r.scanOperator(r.db.QueryRow(ctx, findOperatorByCodeSQL, code))
}

const findOperatorByIDSQL = `
SELECT id::text, company_id::text, code, name, pin_hash, role, is_active
FROM operators
WHERE id = $1`

func (r *OperatorRepository) FindByID(ctx context.Context, operatorID uuid.UUID) (*queries.OperatorView, error) {
	op, _, err := r.scanOperator(r.db.QueryRow(ctx, findOperatorByIDSQL, operatorID.String()))
	return op, err
}

func (r *OperatorRepository) scanOperator(row pgx.Row) (*queries.OperatorView, string, error) {
	var (
		idText, companyText, pinHash string
		op                           queries.OperatorView
	)
	err := row.Scan(&idText, &companyText, &op.Code, &op.Name, &pinHash, &op.Role, &op.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", infra.WrapRepoErr("operator not found", err, infra.KindNotFound)
	}
	if err != nil {
		return nil, "", infra.WrapRepoErr("failed to find operator", err)
	}

	if op.ID, err = uuid.Parse(idText); err != nil {
		return nil, "", infra.WrapRepoErr("failed to parse operator id", err)
	}
	if op.CompanyID, err = uuid.Parse(companyText); err != nil {
		return nil, "", infra.WrapRepoErr("failed to parse operator company id", err)
	}
	return &op, pinHash, nil
}
