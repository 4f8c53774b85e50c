package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pdv-terminal/internal/domain/promotion"
	"pdv-terminal/internal/pkg/errs"
)

var ErrPromotionsUnavailable = errs.New("promotions unavailable")

// PromotionRepository reads the back-office promotion definitions from the
// local database. Promotions are written by the admin back office, never by
// the terminal, so there is no remote tier here.
type PromotionRepository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]promotion.Promotion, error)
}

type PromotionQueries interface {
	ActiveAt(ctx context.Context, companyID uuid.UUID, t time.Time) ([]promotion.Promotion, error)
}

type promotionQueriesImpl struct {
	repo PromotionRepository
}

func NewPromotionQueries(repo PromotionRepository) PromotionQueries {
	return &promotionQueriesImpl{repo: repo}
}

func (q *promotionQueriesImpl) ActiveAt(ctx context.Context, companyID uuid.UUID, t time.Time) ([]promotion.Promotion, error) {
	promos, err := q.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, errs.Mark(err, ErrPromotionsUnavailable)
	}

	active := make([]promotion.Promotion, 0, len(promos))
	for _, p := range promos {
		if p.IsActiveAt(t) {
			active = append(active, p)
		}
	}
	return active, nil
}
