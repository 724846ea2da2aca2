package share

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind tags what a stored file contains.
const (
	KindInvoices = "invoices"
	KindStock    = "stock"
)

// Entry is a registered cleaned-file artifact.
type Entry struct {
	Path      string
	Kind      string
	CreatedAt time.Time
}

// Store maps opaque tokens to written output files. Injected into the
// HTTP boundary so handlers stay testable without process-global state.
type Store interface {
	Put(path, kind string) (token string)
	Get(token string) (Entry, bool)
	Delete(token string)
}

// MemoryStore is an in-memory Store guarded by a mutex. A non-zero TTL
// makes entries expire lazily on read; the zero TTL keeps the original
// ephemeral keep-until-restart behavior.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose entries live for ttl, or forever
// when ttl is zero.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put registers a file path and returns its token.
func (s *MemoryStore) Put(path, kind string) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.entries[token] = Entry{Path: path, Kind: kind, CreatedAt: s.now()}
	s.mu.Unlock()
	return token
}

// Get resolves a token. Expired entries read as absent.
func (s *MemoryStore) Get(token string) (Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	if s.ttl > 0 && s.now().Sub(e.CreatedAt) > s.ttl {
		s.Delete(token)
		return Entry{}, false
	}
	return e, true
}

// Delete removes a token, if present.
func (s *MemoryStore) Delete(token string) {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
}
