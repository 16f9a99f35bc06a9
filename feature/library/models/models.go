package models

import (
	"library-manager/core/reconcile"
)

// Entry represents the 'entries' table.
type Entry struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Kind         string `gorm:"column:kind;size:16;not null;default:anime"`
	Source       int64  `gorm:"column:source;not null;uniqueIndex:idx_entries_source_url"`
	URL          string `gorm:"column:url;size:512;not null;uniqueIndex:idx_entries_source_url"`
	Title        string `gorm:"column:title;size:512"`
	Favorite     bool   `gorm:"column:favorite;not null;default:false;index"`
	EpisodeFlags int64  `gorm:"column:episode_flags;not null;default:0"`
	ViewerFlags  int64  `gorm:"column:viewer_flags;not null;default:0"`
	DateAdded    int64  `gorm:"column:date_added;not null;default:0"`
}

// TableName overrides the table name.
func (Entry) TableName() string {
	return "entries"
}

// ToDomain converts the row to the reconcile entity.
func (e Entry) ToDomain() reconcile.Entry {
	return reconcile.Entry{
		ID:           e.ID,
		Kind:         reconcile.Kind(e.Kind),
		Source:       e.Source,
		URL:          e.URL,
		Title:        e.Title,
		Favorite:     e.Favorite,
		EpisodeFlags: e.EpisodeFlags,
		ViewerFlags:  e.ViewerFlags,
		DateAdded:    e.DateAdded,
	}
}

// EntryFromDomain converts a reconcile entity to a row.
func EntryFromDomain(e reconcile.Entry) Entry {
	kind := string(e.Kind)
	if kind == "" {
		kind = string(reconcile.KindAnime)
	}
	return Entry{
		ID:           e.ID,
		Kind:         kind,
		Source:       e.Source,
		URL:          e.URL,
		Title:        e.Title,
		Favorite:     e.Favorite,
		EpisodeFlags: e.EpisodeFlags,
		ViewerFlags:  e.ViewerFlags,
		DateAdded:    e.DateAdded,
	}
}

// Episode represents the 'episodes' table. Manga chapters share it.
type Episode struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	EntryID     int64   `gorm:"column:entry_id;not null;uniqueIndex:idx_episodes_entry_url"`
	URL         string  `gorm:"column:url;size:512;not null;uniqueIndex:idx_episodes_entry_url"`
	Name        string  `gorm:"column:name;size:512"`
	Scanlator   string  `gorm:"column:scanlator;size:255"`
	Number      float64 `gorm:"column:number;not null"`
	Seen        bool    `gorm:"column:seen;not null;default:false"`
	Bookmark    bool    `gorm:"column:bookmark;not null;default:false"`
	DateFetch   int64   `gorm:"column:date_fetch;not null;default:0"`
	DateUpload  int64   `gorm:"column:date_upload;not null;default:0"`
	SourceOrder int     `gorm:"column:source_order;not null;default:0"`
}

// TableName overrides the table name.
func (Episode) TableName() string {
	return "episodes"
}

// ToDomain converts the row to the reconcile entity.
func (e Episode) ToDomain() reconcile.Episode {
	return reconcile.Episode{
		ID:          e.ID,
		EntryID:     e.EntryID,
		URL:         e.URL,
		Name:        e.Name,
		Scanlator:   e.Scanlator,
		Number:      e.Number,
		Seen:        e.Seen,
		Bookmark:    e.Bookmark,
		DateFetch:   e.DateFetch,
		DateUpload:  e.DateUpload,
		SourceOrder: e.SourceOrder,
	}
}

// EpisodeFromDomain converts a reconcile entity to a row.
func EpisodeFromDomain(e reconcile.Episode) Episode {
	return Episode{
		ID:          e.ID,
		EntryID:     e.EntryID,
		URL:         e.URL,
		Name:        e.Name,
		Scanlator:   e.Scanlator,
		Number:      e.Number,
		Seen:        e.Seen,
		Bookmark:    e.Bookmark,
		DateFetch:   e.DateFetch,
		DateUpload:  e.DateUpload,
		SourceOrder: e.SourceOrder,
	}
}

// Category represents the 'categories' table.
type Category struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name  string `gorm:"column:name;size:255;not null"`
	Order int    `gorm:"column:sort_order;not null;default:0"`
}

// TableName overrides the table name.
func (Category) TableName() string {
	return "categories"
}

func (c Category) ToDomain() reconcile.Category {
	return reconcile.Category{ID: c.ID, Name: c.Name, Order: c.Order}
}

// EntryCategory links an entry to a category.
type EntryCategory struct {
	EntryID    int64 `gorm:"column:entry_id;primaryKey;autoIncrement:false"`
	CategoryID int64 `gorm:"column:category_id;primaryKey;autoIncrement:false"`
}

// TableName overrides the table name.
func (EntryCategory) TableName() string {
	return "entry_categories"
}

// Track represents the 'tracks' table. One row per (entry, tracker).
type Track struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	EntryID         int64   `gorm:"column:entry_id;not null;uniqueIndex:idx_tracks_entry_tracker"`
	TrackerID       int64   `gorm:"column:tracker_id;not null;uniqueIndex:idx_tracks_entry_tracker"`
	RemoteID        int64   `gorm:"column:remote_id"`
	LibraryID       int64   `gorm:"column:library_id"`
	Title           string  `gorm:"column:title;size:512"`
	LastEpisodeSeen float64 `gorm:"column:last_episode_seen"`
	TotalEpisodes   int     `gorm:"column:total_episodes"`
	Status          int     `gorm:"column:status"`
	Score           float64 `gorm:"column:score"`
	RemoteURL       string  `gorm:"column:remote_url;size:1024"`
	StartDate       int64   `gorm:"column:start_date"`
	FinishDate      int64   `gorm:"column:finish_date"`
}

// TableName overrides the table name.
func (Track) TableName() string {
	return "tracks"
}

// ToDomain converts the row to the reconcile entity.
func (t Track) ToDomain() reconcile.Track {
	return reconcile.Track{
		ID:              t.ID,
		EntryID:         t.EntryID,
		TrackerID:       t.TrackerID,
		RemoteID:        t.RemoteID,
		LibraryID:       t.LibraryID,
		Title:           t.Title,
		LastEpisodeSeen: t.LastEpisodeSeen,
		TotalEpisodes:   t.TotalEpisodes,
		Status:          t.Status,
		Score:           t.Score,
		RemoteURL:       t.RemoteURL,
		StartDate:       t.StartDate,
		FinishDate:      t.FinishDate,
	}
}

// TrackFromDomain converts a reconcile entity to a row.
func TrackFromDomain(t reconcile.Track) Track {
	return Track{
		ID:              t.ID,
		EntryID:         t.EntryID,
		TrackerID:       t.TrackerID,
		RemoteID:        t.RemoteID,
		LibraryID:       t.LibraryID,
		Title:           t.Title,
		LastEpisodeSeen: t.LastEpisodeSeen,
		TotalEpisodes:   t.TotalEpisodes,
		Status:          t.Status,
		Score:           t.Score,
		RemoteURL:       t.RemoteURL,
		StartDate:       t.StartDate,
		FinishDate:      t.FinishDate,
	}
}

// Source represents the 'sources' table of installed sources.
type Source struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name      string `gorm:"column:name;size:255;not null"`
	Kind      string `gorm:"column:kind;size:16;not null;default:http"`
	BaseURL   string `gorm:"column:base_url;size:1024"`
	Enabled   bool   `gorm:"column:enabled;not null"`
	TrackerID int64  `gorm:"column:tracker_id;not null;default:0"` // enhanced tracker serving this source, 0 = none
}

// TableName overrides the table name.
func (Source) TableName() string {
	return "sources"
}

// Preference represents the 'preferences' key/value table.
type Preference struct {
	Key   string `gorm:"column:pref_key;primaryKey;size:128"`
	Value string `gorm:"column:pref_value;size:1024"`
}

// TableName overrides the table name.
func (Preference) TableName() string {
	return "preferences"
}

// All lists every model managed by the library schema.
func All() []any {
	return []any{&Entry{}, &Episode{}, &Category{}, &EntryCategory{}, &Track{}, &Source{}, &Preference{}}
}
