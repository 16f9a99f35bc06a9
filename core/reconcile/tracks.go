package reconcile

import "sync"

// TrackerRegistry holds enhanced trackers keyed by tracker ID.
type TrackerRegistry struct {
	mu       sync.RWMutex
	trackers map[int64]EnhancedTracker
}

// NewTrackerRegistry creates a registry with the given trackers.
func NewTrackerRegistry(trackers ...EnhancedTracker) *TrackerRegistry {
	r := &TrackerRegistry{trackers: make(map[int64]EnhancedTracker, len(trackers))}
	for _, t := range trackers {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a tracker.
func (r *TrackerRegistry) Register(t EnhancedTracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trackers[t.ID()] = t
}

// Lookup returns the tracker registered for trackerID.
func (r *TrackerRegistry) Lookup(trackerID int64) (EnhancedTracker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trackers[trackerID]
	return t, ok
}

// MigrateTracks rebinds old tracks to newEntry. A track owned by an enhanced
// tracker that recognizes it as coming from oldEntry on oldSource goes through
// the tracker's own transform, which may drop it.
func MigrateTracks(lookup TrackerLookup, tracks []Track, oldEntry, newEntry Entry, oldSource, newSource Source) (migrated []Track, dropped int) {
	for _, track := range tracks {
		rebound := track
		rebound.EntryID = newEntry.ID

		if lookup != nil {
			if tracker, ok := lookup.Lookup(rebound.TrackerID); ok && tracker.IsTrackFrom(rebound, oldEntry, oldSource) {
				out, ok := tracker.MigrateTrack(rebound, newEntry, newSource)
				if !ok {
					dropped++
					continue
				}
				rebound = out
			}
		}

		migrated = append(migrated, rebound)
	}
	return migrated, dropped
}
