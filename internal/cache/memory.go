package cache

import (
	"context"
	"sync"
	"time"

	"traderhub-api/internal/model"
)

type memoryEntry struct {
	lines     []model.CartLine
	expiresAt time.Time
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// MemoryStore is the in-process fallback used when Redis is not
// configured or unreachable. Sessions and carts do not survive a
// restart with this backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.SessionData
	expiry   map[string]time.Time
	carts    map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.SessionData),
		expiry:   make(map[string]time.Time),
		carts:    make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) SetSession(_ context.Context, token string, data *model.SessionData, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *data
	s.sessions[token] = &copied
	if ttl > 0 {
		s.expiry[token] = time.Now().Add(ttl)
	} else {
		delete(s.expiry, token)
	}
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, token string) (*model.SessionData, error) {
	s.mu.RLock()
	data, ok := s.sessions[token]
	exp, hasExp := s.expiry[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if hasExp && time.Now().After(exp) {
		s.mu.Lock()
		delete(s.sessions, token)
		delete(s.expiry, token)
		s.mu.Unlock()
		return nil, ErrMiss
	}
	copied := *data
	return &copied, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	delete(s.expiry, token)
	return nil
}

func (s *MemoryStore) SetCart(_ context.Context, cartID string, lines []model.CartLine, ttl time.Duration) error {
	copied := make([]model.CartLine, len(lines))
	copy(copied, lines)
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = memoryEntry{lines: copied, expiresAt: exp}
	return nil
}

func (s *MemoryStore) GetCart(_ context.Context, cartID string) ([]model.CartLine, error) {
	s.mu.RLock()
	entry, ok := s.carts[cartID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if entry.expired() {
		s.mu.Lock()
		delete(s.carts, cartID)
		s.mu.Unlock()
		return nil, ErrMiss
	}
	out := make([]model.CartLine, len(entry.lines))
	copy(out, entry.lines)
	return out, nil
}

func (s *MemoryStore) DeleteCart(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
