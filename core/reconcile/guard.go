package reconcile

import (
	"fmt"
	"sync"
)

// Guard tracks entries with a migration in flight. It is the "migrating"
// flag callers poll, and it rejects a second migration touching a claimed entry.
type Guard struct {
	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{inflight: make(map[int64]struct{})}
}

// Acquire claims every id or none of them. The returned release func must be called exactly once.
func (g *Guard) Acquire(ids ...int64) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range ids {
		if _, busy := g.inflight[id]; busy {
			return nil, fmt.Errorf("entry %d: %w", id, ErrMigrationInProgress)
		}
	}
	for _, id := range ids {
		g.inflight[id] = struct{}{}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			for _, id := range ids {
				delete(g.inflight, id)
			}
		})
	}, nil
}

// Migrating reports whether id is part of a running migration.
func (g *Guard) Migrating(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[id]
	return busy
}
