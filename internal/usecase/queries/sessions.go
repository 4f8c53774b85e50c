package queries

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"pdv-terminal/internal/domain/catalog"
	"pdv-terminal/internal/pkg/errs"
)

var ErrSessionNotFound = errs.New("no open register session")

type SessionCache interface {
	GetSession(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error)
	SetSession(ctx context.Context, session *catalog.Session) error
}

type SessionRepository interface {
	FindOpen(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error)
}

type SessionGateway interface {
	FetchSession(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error)
}

type SessionQueries interface {
	Current(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error)
}

type sessionQueriesImpl struct {
	cache   SessionCache
	repo    SessionRepository
	gateway SessionGateway

	mu          sync.Mutex
	generations map[string]uint64
}

func NewSessionQueries(cache SessionCache, repo SessionRepository, gateway SessionGateway) SessionQueries {
	return &sessionQueriesImpl{
		cache:       cache,
		repo:        repo,
		gateway:     gateway,
		generations: make(map[string]uint64),
	}
}

// Current resolves the open register session through the same cache -> local
// replica -> remote chain as the product loader, with the same generation
// guard against stale in-flight responses.
func (q *sessionQueriesImpl) Current(ctx context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error) {
	key := companyID.String() + "/" + terminalID
	gen := q.nextGeneration(key)

	if session, err := q.cache.GetSession(ctx, companyID, terminalID); err == nil && session != nil {
		return session, nil
	}

	session, err := q.repo.FindOpen(ctx, companyID, terminalID)
	if err != nil {
		slog.Warn("local session replica unavailable", "terminal_id", terminalID, "error", err.Error())
	}
	if session == nil {
		session, err = q.gateway.FetchSession(ctx, companyID, terminalID)
		if err != nil {
			return nil, errs.Mark(err, ErrSessionNotFound)
		}
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !q.isCurrent(key, gen) {
		return nil, ErrLoadSuperseded
	}

	if cacheErr := q.cache.SetSession(ctx, session); cacheErr != nil {
		slog.Warn("failed to warm session cache", "terminal_id", terminalID, "error", cacheErr.Error())
	}
	return session, nil
}

func (q *sessionQueriesImpl) nextGeneration(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generations[key]++
	return q.generations[key]
}

func (q *sessionQueriesImpl) isCurrent(key string, gen uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.generations[key] == gen
}
