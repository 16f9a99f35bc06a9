package library

import (
	"context"
	"errors"
	"testing"

	"library-manager/core/database"
	"library-manager/core/reconcile"
	"library-manager/feature/library/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupTestDB creates a migrated in-memory SQLite library.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func seedEntry(t *testing.T, repo *Repository, e reconcile.Entry) reconcile.Entry {
	t.Helper()
	out, err := repo.CreateEntry(context.Background(), e)
	require.NoError(t, err)
	return out
}

func TestMigrate_VerifiesSchema(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, VerifySchema(db))

	require.NoError(t, db.Migrator().DropColumn(&models.Episode{}, "bookmark"))
	err := VerifySchema(db)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.ErrorContains(t, err, "bookmark")
}

func TestRepository_Entries(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	created := seedEntry(t, repo, reconcile.Entry{Kind: reconcile.KindManga, Source: 1, URL: "/a", Title: "A", Favorite: true, DateAdded: 5})
	assert.NotZero(t, created.ID)

	got, err := repo.EntryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.EntryByID(ctx, 999)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	t.Run("Sparse update", func(t *testing.T) {
		fav := false
		zero := int64(0)
		require.NoError(t, repo.UpdateEntry(ctx, reconcile.EntryUpdate{ID: created.ID, Favorite: &fav, DateAdded: &zero}))

		got, err := repo.EntryByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.Favorite)
		assert.Zero(t, got.DateAdded)
		assert.Equal(t, "A", got.Title)
		assert.Equal(t, reconcile.KindManga, got.Kind)
	})

	t.Run("Empty update is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.UpdateEntry(ctx, reconcile.EntryUpdate{ID: created.ID}))
	})
}

func TestRepository_Favorites(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/old", Favorite: true, DateAdded: 10})
	seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/newer", Favorite: true, DateAdded: 20})
	seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/browsed"})

	favs, err := repo.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "/newer", favs[0].URL)
	assert.Equal(t, "/old", favs[1].URL)
}

func TestRepository_Episodes(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	entry := seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/a"})

	require.NoError(t, repo.SaveEpisodes(ctx, []reconcile.Episode{
		{EntryID: entry.ID, URL: "/a/2", Name: "Two", Number: 2, SourceOrder: 1},
		{EntryID: entry.ID, URL: "/a/0", Name: "Zero", Number: 0, SourceOrder: 0},
	}))

	eps, err := repo.EpisodesByEntryID(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "/a/0", eps[0].URL)
	assert.Equal(t, 0.0, eps[0].Number)

	t.Run("UpdateEpisodes writes progress only", func(t *testing.T) {
		ep := eps[1]
		ep.Seen = true
		ep.Bookmark = true
		ep.DateFetch = 777
		ep.Name = "ignored"
		require.NoError(t, repo.UpdateEpisodes(ctx, []reconcile.Episode{ep}))

		after, err := repo.EpisodesByEntryID(ctx, entry.ID)
		require.NoError(t, err)
		want := eps[1]
		want.Seen = true
		want.Bookmark = true
		want.DateFetch = 777
		if diff := cmp.Diff(want, after[1]); diff != "" {
			t.Errorf("episode mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("SaveEpisodes refreshes metadata only", func(t *testing.T) {
		current, err := repo.EpisodesByEntryID(ctx, entry.ID)
		require.NoError(t, err)
		ep := current[1]
		ep.Name = "Two (HD)"
		ep.Seen = false
		ep.Bookmark = false
		require.NoError(t, repo.SaveEpisodes(ctx, []reconcile.Episode{ep}))

		after, err := repo.EpisodesByEntryID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Two (HD)", after[1].Name)
		assert.True(t, after[1].Seen)
		assert.True(t, after[1].Bookmark)
	})
}

func TestRepository_Categories(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	entry := seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/a"})

	reading, err := repo.CreateCategory(ctx, "Reading", 1)
	require.NoError(t, err)
	done, err := repo.CreateCategory(ctx, "Done", 0)
	require.NoError(t, err)

	require.NoError(t, repo.SetEntryCategories(ctx, entry.ID, []int64{reading.ID, done.ID}))
	cats, err := repo.CategoriesByEntryID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []reconcile.Category{done, reading}, cats)

	require.NoError(t, repo.SetEntryCategories(ctx, entry.ID, []int64{reading.ID}))
	cats, err = repo.CategoriesByEntryID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []reconcile.Category{reading}, cats)

	require.NoError(t, repo.SetEntryCategories(ctx, entry.ID, nil))
	cats, err = repo.CategoriesByEntryID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestRepository_Tracks(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	old := seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/a"})
	nw := seedEntry(t, repo, reconcile.Entry{Source: 2, URL: "/b"})

	require.NoError(t, repo.InsertTracks(ctx, []reconcile.Track{
		{EntryID: old.ID, TrackerID: 1, RemoteID: 10, LastEpisodeSeen: 3, RemoteURL: "https://t/10"},
	}))
	tracks, err := repo.TracksByEntryID(ctx, old.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	// Rebinding keeps the old row and creates a new one for the new entry.
	moved := tracks[0]
	moved.EntryID = nw.ID
	require.NoError(t, repo.InsertTracks(ctx, []reconcile.Track{moved}))

	oldTracks, err := repo.TracksByEntryID(ctx, old.ID)
	require.NoError(t, err)
	assert.Len(t, oldTracks, 1)

	newTracks, err := repo.TracksByEntryID(ctx, nw.ID)
	require.NoError(t, err)
	require.Len(t, newTracks, 1)
	assert.NotEqual(t, tracks[0].ID, newTracks[0].ID)
	assert.Equal(t, 3.0, newTracks[0].LastEpisodeSeen)

	// Same (entry, tracker) again updates in place.
	moved.LastEpisodeSeen = 5
	require.NoError(t, repo.InsertTracks(ctx, []reconcile.Track{moved}))
	newTracks, err = repo.TracksByEntryID(ctx, nw.ID)
	require.NoError(t, err)
	require.Len(t, newTracks, 1)
	assert.Equal(t, 5.0, newTracks[0].LastEpisodeSeen)
}

func TestRepository_Preferences(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	_, ok, err := repo.MigrateFacets(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetMigrateFacets(ctx, reconcile.NewFacetSet(reconcile.FacetEpisodes, reconcile.FacetTracks)))
	require.NoError(t, repo.SetMigrateFacets(ctx, reconcile.NewFacetSet(reconcile.FacetCategories)))

	facets, ok, err := repo.MigrateFacets(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []reconcile.Facet{reconcile.FacetCategories}, facets.List())

	value, _, err := repo.Preference(ctx, PrefMigrateFlags)
	require.NoError(t, err)
	assert.Equal(t, "2", value)

	require.NoError(t, repo.SetPreference(ctx, PrefMigrateFlags, "garbage"))
	_, _, err = repo.MigrateFacets(ctx)
	assert.Error(t, err)
}

func TestRepository_Sources(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.SaveSource(ctx, models.Source{ID: 7, Name: "Komga", Kind: "http", BaseURL: "http://komga", Enabled: true, TrackerID: 6}))
	require.NoError(t, repo.SaveSource(ctx, models.Source{ID: 3, Name: "Old", Kind: "http", Enabled: false}))
	require.NoError(t, repo.SaveSource(ctx, models.Source{ID: 7, Name: "Komga 2", Kind: "http", BaseURL: "http://komga", Enabled: true, TrackerID: 6}))

	rows, err := repo.Sources(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].ID)
	assert.False(t, rows[0].Enabled)
	assert.Equal(t, "Komga 2", rows[1].Name)
}

func TestRepository_UpdateEpisodes_RollsBackBatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `episodes` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `episodes` SET").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := repo.UpdateEpisodes(context.Background(), []reconcile.Episode{
		{ID: 1, Seen: true}, {ID: 2, Seen: true},
	})
	assert.ErrorContains(t, err, "failed to update episode 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_EntryByID_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `entries`").WillReturnError(errors.New("connection refused"))

	_, err := repo.EntryByID(context.Background(), 1)
	assert.ErrorContains(t, err, "failed to load entry 1")
	assert.NotErrorIs(t, err, ErrEntryNotFound)
}
