package reconcile

import (
	"math"
	"time"
)

// Kind distinguishes anime entries (episodes) from manga entries (chapters).
type Kind string

const (
	KindAnime Kind = "anime"
	KindManga Kind = "manga"
)

// Entry is a library item (anime or manga series) bound to one source.
type Entry struct {
	// ID is the library identity of the entry.
	ID int64 `json:"id"`

	// Kind tells whether the entry holds episodes or chapters.
	Kind Kind `json:"kind"`

	// Source is the identifier of the source the entry was fetched from.
	Source int64 `json:"source"`

	// URL is the source-relative key of the entry.
	URL string `json:"url"`

	// Title is the display title.
	Title string `json:"title"`

	// Favorite marks the entry as part of the library.
	Favorite bool `json:"favorite"`

	// EpisodeFlags holds episode display order and filter flags.
	EpisodeFlags int64 `json:"episode_flags"`

	// ViewerFlags holds reader/player display flags.
	ViewerFlags int64 `json:"viewer_flags"`

	// DateAdded is the epoch millis when the entry joined the library, 0 if not in it.
	DateAdded int64 `json:"date_added"`
}

// Episode is a locally stored episode (anime) or chapter (manga) record.
type Episode struct {
	ID          int64   `json:"id"`
	EntryID     int64   `json:"entry_id"`
	URL         string  `json:"url"`
	Name        string  `json:"name"`
	Scanlator   string  `json:"scanlator,omitempty"`
	Number      float64 `json:"number"`
	Seen        bool    `json:"seen"`
	Bookmark    bool    `json:"bookmark"`
	DateFetch   int64   `json:"date_fetch"`
	DateUpload  int64   `json:"date_upload"`
	SourceOrder int     `json:"source_order"`
}

// IsRecognizedNumber reports whether the number was parsed from source metadata.
// Unrecognized numbers are stored as a negative value (or NaN from broken sources).
func (e Episode) IsRecognizedNumber() bool {
	return !math.IsNaN(e.Number) && e.Number >= 0
}

// RemoteEpisode is an episode as returned by a source, before it is stored.
type RemoteEpisode struct {
	URL        string  `json:"url"`
	Name       string  `json:"name"`
	Number     float64 `json:"number"`
	DateUpload int64   `json:"date_upload"`
	Scanlator  string  `json:"scanlator,omitempty"`
}

// Category is a user-defined library category.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Track is a progress record held by an external tracking service.
type Track struct {
	ID              int64   `json:"id"`
	EntryID         int64   `json:"entry_id"`
	TrackerID       int64   `json:"tracker_id"`
	RemoteID        int64   `json:"remote_id"`
	LibraryID       int64   `json:"library_id"`
	Title           string  `json:"title"`
	LastEpisodeSeen float64 `json:"last_episode_seen"`
	TotalEpisodes   int     `json:"total_episodes"`
	Status          int     `json:"status"`
	Score           float64 `json:"score"`
	RemoteURL       string  `json:"remote_url"`
	StartDate       int64   `json:"start_date"`
	FinishDate      int64   `json:"finish_date"`
}

// EntryUpdate is a sparse update keyed by entry ID. Nil fields are left untouched.
type EntryUpdate struct {
	ID           int64  `json:"id"`
	Favorite     *bool  `json:"favorite,omitempty"`
	EpisodeFlags *int64 `json:"episode_flags,omitempty"`
	ViewerFlags  *int64 `json:"viewer_flags,omitempty"`
	DateAdded    *int64 `json:"date_added,omitempty"`
}

// ActionType represents the type of a planned migration mutation.
type ActionType string

const (
	// ActionUpdateEpisodes writes reconciled episode state onto the new entry.
	ActionUpdateEpisodes ActionType = "update_episodes"
	// ActionSetCategories replaces the new entry's category memberships.
	ActionSetCategories ActionType = "set_categories"
	// ActionInsertTracks stores the old entry's tracks rebound to the new entry.
	ActionInsertTracks ActionType = "insert_tracks"
	// ActionRetireOldEntry removes the old entry from the library, keeping its data.
	ActionRetireOldEntry ActionType = "retire_old_entry"
	// ActionCopyCover copies the old entry's custom cover to the new entry.
	ActionCopyCover ActionType = "copy_cover"
	// ActionFinalizeEntry marks the new entry favorite and carries display flags over.
	ActionFinalizeEntry ActionType = "finalize_entry"
)

// Action represents one planned mutation. Only the payload matching Type is set.
type Action struct {
	Type   ActionType `json:"type"`
	Reason string     `json:"reason"`

	Episodes    []Episode    `json:"episodes,omitempty"`
	CategoryIDs []int64      `json:"category_ids,omitempty"`
	Tracks      []Track      `json:"tracks,omitempty"`
	Update      *EntryUpdate `json:"update,omitempty"`
}

// Plan is the ordered list of mutations a migration performs.
type Plan struct {
	OldID   int64    `json:"old_id"`
	NewID   int64    `json:"new_id"`
	Replace bool     `json:"replace"`
	Facets  FacetSet `json:"facets"`

	// FetchedEpisodes is the number of episodes the new source returned.
	FetchedEpisodes int `json:"fetched_episodes"`

	// SyncFailed is set when storing the fetched list failed and the plan
	// was built from whatever records already existed.
	SyncFailed bool `json:"sync_failed"`

	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	EpisodesUpdated int  `json:"episodes_updated"`
	EpisodesSeen    int  `json:"episodes_seen"`
	Categories      int  `json:"categories"`
	TracksMigrated  int  `json:"tracks_migrated"`
	TracksDropped   int  `json:"tracks_dropped"`
	CoverCopied     bool `json:"cover_copied"`
}

// Request describes one migration.
type Request struct {
	Old     Entry
	New     Entry
	Replace bool
	Facets  FacetSet

	// DryRun returns the plan without syncing or mutating anything.
	DryRun bool
}

// Clock returns the current time. Replaced in tests.
type Clock func() time.Time
