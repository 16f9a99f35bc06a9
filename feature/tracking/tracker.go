package tracking

import (
	"sync"

	"library-manager/core/reconcile"
	"library-manager/feature/library/models"
)

// Tracker IDs stored in tracks.tracker_id.
const (
	TrackerKomga    int64 = 6
	TrackerKavita   int64 = 8
	TrackerJellyfin int64 = 104
)

// ServerTracker is an enhanced tracker backed by a self-hosted media server.
// Its tracks point at the server's own copy of the series, so the remote URL
// equals the entry URL on every source the server serves.
type ServerTracker struct {
	id   int64
	name string

	mu       sync.RWMutex
	accepted map[int64]struct{}
}

var _ reconcile.EnhancedTracker = (*ServerTracker)(nil)

// NewServerTracker creates a tracker accepting the given source IDs.
func NewServerTracker(id int64, name string, sourceIDs ...int64) *ServerTracker {
	t := &ServerTracker{id: id, name: name, accepted: make(map[int64]struct{})}
	for _, sid := range sourceIDs {
		t.Accept(sid)
	}
	return t
}

func NewKomga(sourceIDs ...int64) *ServerTracker {
	return NewServerTracker(TrackerKomga, "Komga", sourceIDs...)
}

func NewKavita(sourceIDs ...int64) *ServerTracker {
	return NewServerTracker(TrackerKavita, "Kavita", sourceIDs...)
}

func NewJellyfin(sourceIDs ...int64) *ServerTracker {
	return NewServerTracker(TrackerJellyfin, "Jellyfin", sourceIDs...)
}

func (t *ServerTracker) ID() int64    { return t.id }
func (t *ServerTracker) Name() string { return t.name }

// Accept adds a source served by this tracker's server.
func (t *ServerTracker) Accept(sourceID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted[sourceID] = struct{}{}
}

// Accepts reports whether source is served by this tracker's server.
func (t *ServerTracker) Accepts(source reconcile.Source) bool {
	if source == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.accepted[source.ID()]
	return ok
}

// IsTrackFrom reports whether track was created from entry on source.
func (t *ServerTracker) IsTrackFrom(track reconcile.Track, entry reconcile.Entry, source reconcile.Source) bool {
	return track.RemoteURL == entry.URL && t.Accepts(source)
}

// MigrateTrack points the track at newEntry when newSource is served by the
// same server. Otherwise the track cannot follow and is declined.
func (t *ServerTracker) MigrateTrack(track reconcile.Track, newEntry reconcile.Entry, newSource reconcile.Source) (reconcile.Track, bool) {
	if !t.Accepts(newSource) {
		return reconcile.Track{}, false
	}
	track.RemoteURL = newEntry.URL
	return track, true
}

// NewRegistry builds the tracker registry from the installed sources. Every
// known tracker is registered; a source row naming a tracker binds to it.
func NewRegistry(rows []models.Source) *reconcile.TrackerRegistry {
	trackers := map[int64]*ServerTracker{
		TrackerKomga:    NewKomga(),
		TrackerKavita:   NewKavita(),
		TrackerJellyfin: NewJellyfin(),
	}
	for _, row := range rows {
		if tr, ok := trackers[row.TrackerID]; ok {
			tr.Accept(row.ID)
		}
	}
	return reconcile.NewTrackerRegistry(trackers[TrackerKomga], trackers[TrackerKavita], trackers[TrackerJellyfin])
}
