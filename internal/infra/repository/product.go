// Package repository implements the local-replica tier on Postgres. All
// rows here are copies of back-office data; the terminal reads them when the
// cache is cold and refreshes them from the remote tier.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/infra"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const listProductsSQL = `
SELECT id::text, code, name, unit_price::text, unit, COALESCE(category, ''), stock_quantity::text
FROM products
WHERE company_id = $1
ORDER BY name
LIMIT $2`

func (r *ProductRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit int32) ([]catalog.Product, error) {
	rows, err := r.db.Query(ctx, listProductsSQL, companyID.String(), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan product row", scanErr)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read product rows", err)
	}
	return products, nil
}

const insertProductSQL = `
INSERT INTO products (id, company_id, code, name, unit_price, unit, category, stock_quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// ReplaceCompany swaps the company's replica rows for a fresh remote fetch
// in one transaction, so concurrent readers never see a half-replaced
// catalog.
func (r *ProductRepository) ReplaceCompany(ctx context.Context, companyID uuid.UUID, products []catalog.Product) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin replica refresh", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE company_id = $1`, companyID.String()); err != nil {
		return infra.WrapRepoErr("failed to clear product replica", err)
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(insertProductSQL,
			p.ID.String(), companyID.String(), p.Code, p.Name,
			p.UnitPrice.String(), p.Unit, p.Category, p.StockQuantity.String(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return infra.WrapRepoErr("failed to insert product replica rows", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit replica refresh", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var (
		idText, code, name, priceText, unit, category, stockText string
	)
	if err := row.Scan(&idText, &code, &name, &priceText, &unit, &category, &stockText); err != nil {
		return catalog.Product{}, err
	}

	id, err := uuid.Parse(idText)
	if err != nil {
		return catalog.Product{}, err
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return catalog.Product{}, err
	}
	stock, err := decimal.NewFromString(stockText)
	if err != nil {
		return catalog.Product{}, err
	}

	return catalog.Product{
		ID:            id,
		Code:          code,
		Name:          name,
		UnitPrice:     price,
		Unit:          unit,
		Category:      category,
		StockQuantity: stock,
	}, nil
}
