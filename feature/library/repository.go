package library

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"library-manager/core/database"
	"library-manager/core/reconcile"
	"library-manager/feature/library/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrefMigrateFlags stores the facet bitmask of the last replace migration.
const PrefMigrateFlags = "migrate_flags"

var (
	// ErrEntryNotFound is returned when no entry has the requested ID.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrSchemaMismatch is returned when a library table lacks required columns.
	ErrSchemaMismatch = errors.New("library schema mismatch")
)

// requiredColumns are the columns the migration procedure reads or writes.
var requiredColumns = map[string][]string{
	"entries":          {"id", "source", "url", "favorite", "episode_flags", "viewer_flags", "date_added"},
	"episodes":         {"id", "entry_id", "url", "number", "seen", "bookmark", "date_fetch"},
	"entry_categories": {"entry_id", "category_id"},
	"tracks":           {"id", "entry_id", "tracker_id", "remote_url"},
	"sources":          {"id", "name", "kind", "base_url", "enabled", "tracker_id"},
	"preferences":      {"pref_key", "pref_value"},
}

// Repository is the gorm-backed library store. It implements the entry,
// episode, category and track stores the reconciler works through.
type Repository struct {
	db *gorm.DB
}

var (
	_ reconcile.EntryStore    = (*Repository)(nil)
	_ reconcile.EpisodeStore  = (*Repository)(nil)
	_ reconcile.CategoryStore = (*Repository)(nil)
	_ reconcile.TrackStore    = (*Repository)(nil)
)

// NewRepository creates a repository over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the library tables and verifies the result.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate library schema: %w", err)
	}
	return VerifySchema(db)
}

// VerifySchema checks that every table holds the columns migrations rely on.
func VerifySchema(db *gorm.DB) error {
	for table, cols := range requiredColumns {
		missing, err := database.MissingColumns(db, table, cols)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: table %s lacks %v", ErrSchemaMismatch, table, missing)
		}
	}
	return nil
}

// EntryByID loads one entry.
func (r *Repository) EntryByID(ctx context.Context, id int64) (reconcile.Entry, error) {
	var row models.Entry
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconcile.Entry{}, fmt.Errorf("entry %d: %w", id, ErrEntryNotFound)
	}
	if err != nil {
		return reconcile.Entry{}, fmt.Errorf("failed to load entry %d: %w", id, err)
	}
	return row.ToDomain(), nil
}

// Favorites lists the entries in the library, most recently added first.
func (r *Repository) Favorites(ctx context.Context) ([]reconcile.Entry, error) {
	var rows []models.Entry
	if err := r.db.WithContext(ctx).Where("favorite = ?", true).Order("date_added DESC, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	out := make([]reconcile.Entry, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// CreateEntry inserts an entry and returns it with its assigned ID.
func (r *Repository) CreateEntry(ctx context.Context, entry reconcile.Entry) (reconcile.Entry, error) {
	row := models.EntryFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return reconcile.Entry{}, fmt.Errorf("failed to create entry: %w", err)
	}
	return row.ToDomain(), nil
}

// UpdateEntry applies the non-nil fields of update.
func (r *Repository) UpdateEntry(ctx context.Context, update reconcile.EntryUpdate) error {
	values := map[string]any{}
	if update.Favorite != nil {
		values["favorite"] = *update.Favorite
	}
	if update.EpisodeFlags != nil {
		values["episode_flags"] = *update.EpisodeFlags
	}
	if update.ViewerFlags != nil {
		values["viewer_flags"] = *update.ViewerFlags
	}
	if update.DateAdded != nil {
		values["date_added"] = *update.DateAdded
	}
	if len(values) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Model(&models.Entry{}).Where("id = ?", update.ID).Updates(values).Error
	if err != nil {
		return fmt.Errorf("failed to update entry %d: %w", update.ID, err)
	}
	return nil
}

// EpisodesByEntryID loads the entry's episodes in source order.
func (r *Repository) EpisodesByEntryID(ctx context.Context, entryID int64) ([]reconcile.Episode, error) {
	var rows []models.Episode
	if err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).Order("source_order, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load episodes of entry %d: %w", entryID, err)
	}
	out := make([]reconcile.Episode, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// UpdateEpisodes persists seen, bookmark and date_fetch of every record in one transaction.
func (r *Repository) UpdateEpisodes(ctx context.Context, episodes []reconcile.Episode) error {
	if len(episodes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ep := range episodes {
			err := tx.Model(&models.Episode{}).Where("id = ?", ep.ID).Updates(map[string]any{
				"seen":       ep.Seen,
				"bookmark":   ep.Bookmark,
				"date_fetch": ep.DateFetch,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to update episode %d: %w", ep.ID, err)
			}
		}
		return nil
	})
}

// SaveEpisodes inserts records without an ID and refreshes the source
// metadata of the others. Seen, bookmark and date_fetch of existing records
// are left alone.
func (r *Repository) SaveEpisodes(ctx context.Context, episodes []reconcile.Episode) error {
	if len(episodes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inserts []models.Episode
		for _, ep := range episodes {
			if ep.ID == 0 {
				inserts = append(inserts, models.EpisodeFromDomain(ep))
				continue
			}
			err := tx.Model(&models.Episode{}).Where("id = ?", ep.ID).Updates(map[string]any{
				"name":         ep.Name,
				"number":       ep.Number,
				"scanlator":    ep.Scanlator,
				"date_upload":  ep.DateUpload,
				"source_order": ep.SourceOrder,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to refresh episode %d: %w", ep.ID, err)
			}
		}
		if len(inserts) > 0 {
			if err := tx.CreateInBatches(inserts, 100).Error; err != nil {
				return fmt.Errorf("failed to insert episodes: %w", err)
			}
		}
		return nil
	})
}

// CreateCategory inserts a category and returns it with its assigned ID.
func (r *Repository) CreateCategory(ctx context.Context, name string, order int) (reconcile.Category, error) {
	row := models.Category{Name: name, Order: order}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return reconcile.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return row.ToDomain(), nil
}

// CategoriesByEntryID loads the categories the entry belongs to.
func (r *Repository) CategoriesByEntryID(ctx context.Context, entryID int64) ([]reconcile.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN entry_categories ec ON ec.category_id = categories.id").
		Where("ec.entry_id = ?", entryID).
		Order("categories.sort_order, categories.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load categories of entry %d: %w", entryID, err)
	}
	out := make([]reconcile.Category, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// SetEntryCategories replaces the entry's memberships with categoryIDs.
func (r *Repository) SetEntryCategories(ctx context.Context, entryID int64, categoryIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entryID).Delete(&models.EntryCategory{}).Error; err != nil {
			return fmt.Errorf("failed to clear categories of entry %d: %w", entryID, err)
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		links := make([]models.EntryCategory, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			links = append(links, models.EntryCategory{EntryID: entryID, CategoryID: id})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
			return fmt.Errorf("failed to set categories of entry %d: %w", entryID, err)
		}
		return nil
	})
}

// TracksByEntryID loads the entry's tracks.
func (r *Repository) TracksByEntryID(ctx context.Context, entryID int64) ([]reconcile.Track, error) {
	var rows []models.Track
	if err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).Order("tracker_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load tracks of entry %d: %w", entryID, err)
	}
	out := make([]reconcile.Track, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// InsertTracks upserts the tracks keyed by (entry, tracker). Track IDs are
// reassigned by the database.
func (r *Repository) InsertTracks(ctx context.Context, tracks []reconcile.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	rows := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		row := models.TrackFromDomain(t)
		row.ID = 0
		rows = append(rows, row)
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entry_id"}, {Name: "tracker_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"remote_id", "library_id", "title", "last_episode_seen", "total_episodes",
			"status", "score", "remote_url", "start_date", "finish_date",
		}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to insert tracks: %w", err)
	}
	return nil
}

// Sources lists the installed sources.
func (r *Repository) Sources(ctx context.Context) ([]models.Source, error) {
	var rows []models.Source
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return rows, nil
}

// SaveSource inserts or replaces a source row.
func (r *Repository) SaveSource(ctx context.Context, src models.Source) error {
	if err := r.db.WithContext(ctx).Save(&src).Error; err != nil {
		return fmt.Errorf("failed to save source %d: %w", src.ID, err)
	}
	return nil
}

// Preference returns the stored value of key.
func (r *Repository) Preference(ctx context.Context, key string) (string, bool, error) {
	var row models.Preference
	err := r.db.WithContext(ctx).Where("pref_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return row.Value, true, nil
}

// SetPreference stores value under key.
func (r *Repository) SetPreference(ctx context.Context, key, value string) error {
	row := models.Preference{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"pref_value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// MigrateFacets returns the facet selection stored by the last replace migration.
// ok is false when nothing was stored yet.
func (r *Repository) MigrateFacets(ctx context.Context) (facets reconcile.FacetSet, ok bool, err error) {
	value, found, err := r.Preference(ctx, PrefMigrateFlags)
	if err != nil || !found {
		return reconcile.FacetSet{}, false, err
	}
	mask, err := strconv.Atoi(value)
	if err != nil {
		return reconcile.FacetSet{}, false, fmt.Errorf("invalid %s preference %q: %w", PrefMigrateFlags, value, err)
	}
	return reconcile.FacetSetFromMask(mask), true, nil
}

// SetMigrateFacets stores the facet selection as the legacy bitmask.
func (r *Repository) SetMigrateFacets(ctx context.Context, facets reconcile.FacetSet) error {
	return r.SetPreference(ctx, PrefMigrateFlags, strconv.Itoa(facets.Mask()))
}
