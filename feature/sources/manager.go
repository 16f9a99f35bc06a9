package sources

import (
	"sort"
	"sync"
	"time"

	"library-manager/core/reconcile"
	"library-manager/feature/library/models"

	"go.uber.org/zap"
)

// Source kinds stored in the sources table.
const (
	KindHTTP  = "http"
	KindLocal = "local"
)

type registered struct {
	source  reconcile.Source
	enabled bool
}

// Manager resolves installed sources by ID.
type Manager struct {
	mu      sync.RWMutex
	sources map[int64]registered
}

var _ reconcile.SourceManager = (*Manager)(nil)

// NewManager creates an empty source manager.
func NewManager() *Manager {
	return &Manager{sources: make(map[int64]registered)}
}

// Register installs src. A disabled source stays listed but Get ignores it.
func (m *Manager) Register(src reconcile.Source, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[src.ID()] = registered{source: src, enabled: enabled}
}

// Get returns the source with the given ID, or nil if it is unknown or disabled.
func (m *Manager) Get(id int64) reconcile.Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sources[id]
	if !ok || !r.enabled {
		return nil
	}
	return r.source
}

// IDs lists the installed source IDs in ascending order.
func (m *Manager) IDs() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LoadRows registers an HTTP source for every http row. Rows of other kinds
// are skipped; the local source is registered from configuration.
func (m *Manager) LoadRows(rows []models.Source, timeout time.Duration, logger *zap.Logger) {
	for _, row := range rows {
		if row.Kind != KindHTTP {
			logger.Debug("Skipping source row", zap.Int64("source", row.ID), zap.String("kind", row.Kind))
			continue
		}
		m.Register(NewHTTPSource(row.ID, row.Name, row.BaseURL, timeout), row.Enabled)
	}
}
