package resultcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/pkg/util"
)

type viewRecord struct {
	payload   pattern.View
	expiresAt time.Time
}

// MemoryStore is an in-process result cache for tests/dev and as the Valkey fallback.
type MemoryStore struct {
	mu    sync.RWMutex
	views map[string]viewRecord
	now   func() time.Time
}

// NewMemoryStore constructs a cache backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		views: make(map[string]viewRecord),
		now:   util.NowUTC,
	}
}

// Get implements pattern.ResultCache.
func (s *MemoryStore) Get(_ context.Context, key string) (pattern.View, bool, error) {
	s.mu.RLock()
	record, ok := s.views[key]
	s.mu.RUnlock()
	if !ok {
		return pattern.View{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.views, key)
		s.mu.Unlock()
		return pattern.View{}, false, nil
	}
	return record.payload, true, nil
}

// Put stores the view with optional TTL; zero keeps it until process exit.
func (s *MemoryStore) Put(_ context.Context, key string, view pattern.View, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.views[key] = viewRecord{payload: view, expiresAt: exp}
	return nil
}

// Len reports the number of cached views, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ pattern.ResultCache = (*MemoryStore)(nil)
