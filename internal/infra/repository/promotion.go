package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pdv-terminal/internal/domain/promotion"
	"pdv-terminal/internal/infra"
)

type PromotionRepository struct {
	db *pgxpool.Pool
}

func NewPromotionRepository(db *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{db: db}
}

const listPromotionsSQL = `
SELECT id::text, name, kind, product_ids::text[], COALESCE(category, ''),
       COALESCE(min_quantity, 0)::text, COALESCE(percent, 0)::text,
       COALESCE(take_qty, 0), COALESCE(pay_qty, 0),
       COALESCE(fixed_price, 0)::text,
       starts_at, ends_at, weekdays
FROM promotions
WHERE company_id = $1
ORDER BY name`

func (r *PromotionRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]promotion.Promotion, error) {
	rows, err := r.db.Query(ctx, listPromotionsSQL, companyID.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list promotions", err)
	}
	defer rows.Close()

	var promos []promotion.Promotion
	for rows.Next() {
		var (
			idText, name, kind                  string
			productIDTexts                      []string
			category                            string
			minQtyText, percentText, priceText  string
			takeQty, payQty                     int64
			startsAt, endsAt                    *time.Time
			weekdays                            []int32
		)
		err := rows.Scan(&idText, &name, &kind, &productIDTexts, &category,
			&minQtyText, &percentText, &takeQty, &payQty, &priceText,
			&startsAt, &endsAt, &weekdays)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan promotion row", err)
		}

		p := promotion.Promotion{
			Name:     name,
			Kind:     promotion.Kind(kind),
			Category: category,
			TakeQty:  takeQty,
			PayQty:   payQty,
			StartsAt: startsAt,
			EndsAt:   endsAt,
		}
		if p.ID, err = uuid.Parse(idText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse promotion id", err)
		}
		for _, t := range productIDTexts {
			pid, parseErr := uuid.Parse(t)
			if parseErr != nil {
				return nil, infra.WrapRepoErr("failed to parse promotion product id", parseErr)
			}
			p.ProductIDs = append(p.ProductIDs, pid)
		}
		if p.MinQuantity, err = decimal.NewFromString(minQtyText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse promotion min quantity", err)
		}
		if p.Percent, err = decimal.NewFromString(percentText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse promotion percent", err)
		}
		if p.FixedPrice, err = decimal.NewFromString(priceText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse promotion fixed price", err)
		}
		for _, wd := range weekdays {
			p.Weekdays = append(p.Weekdays, time.Weekday(wd))
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read promotion rows", err)
	}
	return promos, nil
}
