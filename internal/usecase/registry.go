package usecase

import (
	"sync"

	"pdv-terminal/internal/domain/cart"
	"pdv-terminal/internal/domain/sale"
)

// TerminalSession is the mutable state owned by one terminal: its live cart
// and the snapshot of the last finalized sale (for "repeat last sale").
type TerminalSession struct {
	Cart     *cart.Cart
	LastSale *sale.Snapshot
}

// CartRegistry hands out per-terminal sessions. Each terminal is a single
// writer; With serializes the interleaved HTTP requests of one terminal
// while leaving different terminals independent.
type CartRegistry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
}

type registryEntry struct {
	mu      sync.Mutex
	session TerminalSession
}

func NewCartRegistry() *CartRegistry {
	return &CartRegistry{
		sessions: make(map[string]*registryEntry),
	}
}

// With runs fn with exclusive access to the terminal's session, creating the
// session (with an empty cart) on first use.
func (r *CartRegistry) With(terminalID string, fn func(s *TerminalSession) error) error {
	r.mu.Lock()
	entry, ok := r.sessions[terminalID]
	if !ok {
		entry = &registryEntry{session: TerminalSession{Cart: cart.New()}}
		r.sessions[terminalID] = entry
	}
	r.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(&entry.session)
}

// Drop discards a terminal's session entirely (used when a register session
// is closed).
func (r *CartRegistry) Drop(terminalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, terminalID)
}
