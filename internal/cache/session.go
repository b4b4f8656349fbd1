package cache

import (
	"sync"
	"time"

	"desmatamento/internal/filter"
)

// SessionStore keeps one Selection per session id. Values are cloned on the
// way in and out, and Update serializes writers so concurrent requests of
// one session never lose a change.
type SessionStore struct {
	mu    sync.Mutex
	items *LRUCache[filter.Selection]
	seed  func() filter.Selection
}

func NewSessionStore(maxSize int, ttl time.Duration, seed func() filter.Selection) *SessionStore {
	return &SessionStore{
		items: NewLRUCache[filter.Selection](maxSize, ttl),
		seed:  seed,
	}
}

// Load returns the session's Selection, creating a default one for unknown
// or expired ids. The bool reports whether the session already existed.
// Reading refreshes the TTL.
func (s *SessionStore) Load(id string) (filter.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.items.Get(id)
	if !ok {
		sel = s.seed()
	}
	s.items.Set(id, sel.Clone())
	return sel.Clone(), ok
}

// Update applies fn to the session's Selection and stores the result.
func (s *SessionStore) Update(id string, fn func(*filter.Selection)) filter.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.items.Get(id)
	if !ok {
		sel = s.seed()
	}
	sel = sel.Clone()
	fn(&sel)
	s.items.Set(id, sel.Clone())
	return sel
}

func (s *SessionStore) Size() int { return s.items.Size() }

func (s *SessionStore) CleanExpired() int { return s.items.CleanExpired() }
