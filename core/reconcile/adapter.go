package reconcile

import (
	"context"
	"io"
)

// Source is a resolved source handle able to list an entry's episodes.
type Source interface {
	// ID returns the unique identifier of the source.
	ID() int64

	// Name returns the display name of the source.
	Name() string

	// FetchEpisodeList retrieves the complete remote episode list for the entry.
	// This is a network or filesystem call and may fail.
	FetchEpisodeList(ctx context.Context, entry Entry) ([]RemoteEpisode, error)
}

// SourceManager resolves sources by identity.
type SourceManager interface {
	// Get returns the source with the given ID, or nil if it is unknown or disabled.
	Get(id int64) Source
}

// EpisodeSync upserts local episode records for an entry from a remote list.
type EpisodeSync interface {
	Reconcile(ctx context.Context, remote []RemoteEpisode, entry Entry, source Source) error
}

// EpisodeStore reads and bulk-updates episode records.
type EpisodeStore interface {
	EpisodesByEntryID(ctx context.Context, entryID int64) ([]Episode, error)

	// UpdateEpisodes persists seen, bookmark and date_fetch of every record in one batch.
	UpdateEpisodes(ctx context.Context, episodes []Episode) error
}

// CategoryStore reads and replaces category memberships.
type CategoryStore interface {
	CategoriesByEntryID(ctx context.Context, entryID int64) ([]Category, error)

	// SetEntryCategories replaces the entry's memberships with categoryIDs.
	SetEntryCategories(ctx context.Context, entryID int64, categoryIDs []int64) error
}

// TrackStore reads and bulk-inserts track records.
type TrackStore interface {
	TracksByEntryID(ctx context.Context, entryID int64) ([]Track, error)

	// InsertTracks upserts the tracks keyed by (entry, tracker).
	InsertTracks(ctx context.Context, tracks []Track) error
}

// EntryStore applies sparse entry updates.
type EntryStore interface {
	UpdateEntry(ctx context.Context, update EntryUpdate) error
}

// CoverCache stores user-provided cover images per entry.
type CoverCache interface {
	HasCustomCover(ctx context.Context, entryID int64) (bool, error)
	GetCustomCover(ctx context.Context, entryID int64) (io.ReadCloser, error)
	SetCustomCover(ctx context.Context, entry Entry, r io.Reader) error
}

// EnhancedTracker is a tracking service able to remap its own records when an
// entry moves between sources.
type EnhancedTracker interface {
	// ID returns the tracker identifier stored in Track.TrackerID.
	ID() int64

	// Name returns the display name of the tracker.
	Name() string

	// IsTrackFrom reports whether the track was created from entry on source.
	// source may be nil when the old source is no longer installed.
	IsTrackFrom(track Track, entry Entry, source Source) bool

	// MigrateTrack transforms track for newEntry on newSource.
	// ok is false when the track cannot follow the entry and must be dropped.
	MigrateTrack(track Track, newEntry Entry, newSource Source) (migrated Track, ok bool)
}

// TrackerLookup resolves the enhanced tracker owning a tracker ID.
type TrackerLookup interface {
	Lookup(trackerID int64) (EnhancedTracker, bool)
}
