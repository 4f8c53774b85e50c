package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"pdv-terminal/internal/domain/catalog"
)

// MemoryCache is the in-process fallback implementation, used in tests and
// on single-terminal deployments without a Redis instance.
type MemoryCache struct {
	mu       sync.RWMutex
	products map[uuid.UUID][]catalog.Product
	sessions map[string]*catalog.Session
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		products: make(map[uuid.UUID][]catalog.Product),
		sessions: make(map[string]*catalog.Session),
	}
}

func (m *MemoryCache) GetProducts(_ context.Context, companyID uuid.UUID) ([]catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	products, ok := m.products[companyID]
	if !ok {
		return nil, ErrCacheMiss
	}
	out := make([]catalog.Product, len(products))
	copy(out, products)
	return out, nil
}

func (m *MemoryCache) SetProducts(_ context.Context, companyID uuid.UUID, products []catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]catalog.Product, len(products))
	copy(stored, products)
	m.products[companyID] = stored
	return nil
}

func (m *MemoryCache) GetSession(_ context.Context, companyID uuid.UUID, terminalID string) (*catalog.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[memSessionKey(companyID, terminalID)]
	if !ok {
		return nil, ErrCacheMiss
	}
	copied := *session
	return &copied, nil
}

func (m *MemoryCache) SetSession(_ context.Context, session *catalog.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[memSessionKey(session.CompanyID, session.TerminalID)] = &copied
	return nil
}

func memSessionKey(companyID uuid.UUID, terminalID string) string {
	return companyID.String() + "/" + terminalID
}
