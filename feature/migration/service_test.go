package migration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"library-manager/core/config"
	"library-manager/core/database"
	"library-manager/core/metrics"
	"library-manager/core/reconcile"
	"library-manager/core/storage/mocks"
	"library-manager/feature/library"
	"library-manager/feature/library/models"
	"library-manager/feature/sources"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc      *Service
	repo     *library.Repository
	client   *mocks.Client
	oldEntry reconcile.Entry
	newEntry reconcile.Entry
	category reconcile.Category
}

// newFixture builds a library where an entry of a retired HTTP source (5)
// is about to move to the local source (0), which holds episodes 1 to 3.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, library.Migrate(db))
	repo := library.NewRepository(db)

	require.NoError(t, repo.SaveSource(ctx, models.Source{ID: 5, Name: "Old", Kind: sources.KindHTTP, BaseURL: "http://127.0.0.1:1"}))

	fs := afero.NewMemMapFs()
	for _, name := range []string{"Episode 01.mkv", "Episode 02.mkv", "Episode 03.mkv"} {
		require.NoError(t, afero.WriteFile(fs, "/library/show/"+name, []byte("x"), 0o644))
	}

	client := new(mocks.Client)
	svc, mgr, err := Setup(ctx, Options{
		DB:      db,
		Storage: client,
		Bucket:  "covers",
		FS:      fs,
		Config: config.MigrationConfig{
			DefaultFacets:      "all",
			LocalSourceRoot:    "/library",
			HTTPTimeoutSeconds: 1,
		},
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	require.NotNil(t, mgr.Get(0))
	require.Nil(t, mgr.Get(5), "disabled source must not resolve")

	oldEntry, err := repo.CreateEntry(ctx, reconcile.Entry{
		Kind: reconcile.KindAnime, Source: 5, URL: "/show-old", Title: "Show",
		Favorite: true, EpisodeFlags: 3, ViewerFlags: 1, DateAdded: 100,
	})
	require.NoError(t, err)
	newEntry, err := repo.CreateEntry(ctx, reconcile.Entry{Kind: reconcile.KindAnime, Source: 0, URL: "show", Title: "Show"})
	require.NoError(t, err)

	require.NoError(t, repo.SaveEpisodes(ctx, []reconcile.Episode{
		{EntryID: oldEntry.ID, URL: "/show-old/1", Name: "1", Number: 1, DateFetch: 7},
		{EntryID: oldEntry.ID, URL: "/show-old/2", Name: "2", Number: 2, DateFetch: 8},
	}))
	eps, err := repo.EpisodesByEntryID(ctx, oldEntry.ID)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	for i := range eps {
		eps[i].Seen = true
	}
	eps[0].Bookmark = true
	require.NoError(t, repo.UpdateEpisodes(ctx, eps))

	category, err := repo.CreateCategory(ctx, "Watching", 1)
	require.NoError(t, err)
	require.NoError(t, repo.SetEntryCategories(ctx, oldEntry.ID, []int64{category.ID}))

	return &fixture{svc: svc, repo: repo, client: client, oldEntry: oldEntry, newEntry: newEntry, category: category}
}

func (f *fixture) noCover(entryID int64) {
	f.client.On("StatObject", mock.Anything, "covers", fmt.Sprintf("covers/custom/%d", entryID), mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
}

func byNumber(eps []reconcile.Episode) map[float64]reconcile.Episode {
	out := make(map[float64]reconcile.Episode, len(eps))
	for _, e := range eps {
		out[e.Number] = e
	}
	return out
}

func TestService_MigrateReplace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	facets := reconcile.NewFacetSet(reconcile.FacetEpisodes, reconcile.FacetCategories)

	plan, err := f.svc.Migrate(ctx, MigrateInput{OldID: f.oldEntry.ID, NewID: f.newEntry.ID, Replace: true, Facets: &facets})
	require.NoError(t, err)
	assert.Equal(t, 3, plan.FetchedEpisodes)
	assert.False(t, plan.SyncFailed)

	eps, err := f.repo.EpisodesByEntryID(ctx, f.newEntry.ID)
	require.NoError(t, err)
	require.Len(t, eps, 3)
	got := byNumber(eps)
	assert.True(t, got[1].Seen)
	assert.True(t, got[1].Bookmark)
	assert.Equal(t, int64(7), got[1].DateFetch)
	assert.True(t, got[2].Seen)
	assert.False(t, got[2].Bookmark)
	assert.Equal(t, int64(8), got[2].DateFetch)
	assert.False(t, got[3].Seen)

	cats, err := f.repo.CategoriesByEntryID(ctx, f.newEntry.ID)
	require.NoError(t, err)
	assert.Equal(t, []reconcile.Category{f.category}, cats)

	oldEntry, err := f.repo.EntryByID(ctx, f.oldEntry.ID)
	require.NoError(t, err)
	assert.False(t, oldEntry.Favorite)
	assert.Zero(t, oldEntry.DateAdded)

	newEntry, err := f.repo.EntryByID(ctx, f.newEntry.ID)
	require.NoError(t, err)
	assert.True(t, newEntry.Favorite)
	assert.Equal(t, int64(100), newEntry.DateAdded)
	assert.Equal(t, int64(3), newEntry.EpisodeFlags)
	assert.Equal(t, int64(1), newEntry.ViewerFlags)

	stored, ok, err := f.repo.MigrateFacets(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "explicit replace selection is remembered")
	assert.Equal(t, facets.Mask(), stored.Mask())

	assert.False(t, f.svc.Migrating(f.oldEntry.ID))
}

func TestService_CopyUsesStoredFacets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repo.SetMigrateFacets(ctx, reconcile.NewFacetSet(reconcile.FacetCategories)))

	plan, err := f.svc.Migrate(ctx, MigrateInput{OldID: f.oldEntry.ID, NewID: f.newEntry.ID})
	require.NoError(t, err)
	assert.Equal(t, []reconcile.Facet{reconcile.FacetCategories}, plan.Facets.List())

	cats, err := f.repo.CategoriesByEntryID(ctx, f.newEntry.ID)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	eps, err := f.repo.EpisodesByEntryID(ctx, f.newEntry.ID)
	require.NoError(t, err)
	assert.Len(t, eps, 3, "sync still stores the fetched list")
	for _, e := range eps {
		assert.False(t, e.Seen)
	}

	oldEntry, err := f.repo.EntryByID(ctx, f.oldEntry.ID)
	require.NoError(t, err)
	assert.True(t, oldEntry.Favorite, "copy leaves the old entry in the library")
	assert.Equal(t, int64(100), oldEntry.DateAdded)

	newEntry, err := f.repo.EntryByID(ctx, f.newEntry.ID)
	require.NoError(t, err)
	assert.True(t, newEntry.Favorite)
	assert.NotEqual(t, int64(100), newEntry.DateAdded)
}

func TestService_DryRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.noCover(f.oldEntry.ID)
	all := reconcile.AllFacets()

	plan, err := f.svc.Migrate(ctx, MigrateInput{OldID: f.oldEntry.ID, NewID: f.newEntry.ID, Replace: true, Facets: &all, DryRun: true})
	require.NoError(t, err)

	var types []reconcile.ActionType
	for _, a := range plan.Actions {
		types = append(types, a.Type)
	}
	assert.Equal(t, []reconcile.ActionType{
		reconcile.ActionSetCategories,
		reconcile.ActionRetireOldEntry,
		reconcile.ActionFinalizeEntry,
	}, types)

	eps, err := f.repo.EpisodesByEntryID(ctx, f.newEntry.ID)
	require.NoError(t, err)
	assert.Empty(t, eps, "dry run does not sync")

	_, ok, err := f.repo.MigrateFacets(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "dry run does not store the selection")

	oldEntry, err := f.repo.EntryByID(ctx, f.oldEntry.ID)
	require.NoError(t, err)
	assert.True(t, oldEntry.Favorite)
}

func TestService_MigrateErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("Unknown entry", func(t *testing.T) {
		_, err := f.svc.Migrate(ctx, MigrateInput{OldID: 999, NewID: f.newEntry.ID})
		assert.ErrorIs(t, err, library.ErrEntryNotFound)
	})

	t.Run("Same entry", func(t *testing.T) {
		_, err := f.svc.Migrate(ctx, MigrateInput{OldID: f.oldEntry.ID, NewID: f.oldEntry.ID})
		assert.ErrorIs(t, err, reconcile.ErrSameEntry)
	})

	t.Run("Disabled source", func(t *testing.T) {
		// Moving back onto the retired source.
		_, err := f.svc.Migrate(ctx, MigrateInput{OldID: f.newEntry.ID, NewID: f.oldEntry.ID})
		assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
	})

	t.Run("Missing directory", func(t *testing.T) {
		missing, err := f.repo.CreateEntry(ctx, reconcile.Entry{Source: 0, URL: "missing"})
		require.NoError(t, err)
		_, err = f.svc.Migrate(ctx, MigrateInput{OldID: f.oldEntry.ID, NewID: missing.ID})
		assert.ErrorIs(t, err, reconcile.ErrRemoteFetchFailed)

		oldEntry, err := f.repo.EntryByID(ctx, f.oldEntry.ID)
		require.NoError(t, err)
		assert.True(t, oldEntry.Favorite, "nothing is touched when the fetch fails")
	})
}

func TestService_Facets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.client.On("StatObject", mock.Anything, "covers", fmt.Sprintf("covers/custom/%d", f.oldEntry.ID), mock.Anything).
		Return(minio.ObjectInfo{}, nil)
	f.noCover(f.newEntry.ID)

	options, err := f.svc.Facets(ctx, f.oldEntry.ID)
	require.NoError(t, err)
	require.Len(t, options, 4)
	assert.Equal(t, "episodes", options[0].Name)
	assert.Equal(t, "Episodes", options[0].Title)
	for _, o := range options {
		assert.True(t, o.Enabled, o.Name)
	}

	require.NoError(t, f.repo.SetMigrateFacets(ctx, reconcile.NewFacetSet(reconcile.FacetTracks)))
	options, err = f.svc.Facets(ctx, f.newEntry.ID)
	require.NoError(t, err)
	require.Len(t, options, 3, "custom cover is only offered when present")
	for _, o := range options {
		assert.Equal(t, o.Facet == reconcile.FacetTracks, o.Enabled, o.Name)
	}

	_, err = f.svc.Facets(ctx, 999)
	assert.ErrorIs(t, err, library.ErrEntryNotFound)
}

func TestSetup_InvalidDefaultFacets(t *testing.T) {
	_, _, err := Setup(context.Background(), Options{Config: config.MigrationConfig{DefaultFacets: "episodes,bogus"}})
	assert.ErrorContains(t, err, "invalid default facets")
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		dryRun bool
		want   string
	}{
		{"Success", nil, false, metrics.OutcomeSuccess},
		{"Dry run", nil, true, metrics.OutcomeDryRun},
		{"In progress", reconcile.ErrMigrationInProgress, false, metrics.OutcomeRejected},
		{"Wrapped unavailable", fmt.Errorf("source 3: %w", reconcile.ErrSourceUnavailable), false, metrics.OutcomeRejected},
		{"Unhandled", fmt.Errorf("%w: boom", reconcile.ErrUnhandled), false, metrics.OutcomeFailed},
		{"Other", errors.New("boom"), true, metrics.OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeOf(tt.err, tt.dryRun))
		})
	}
}
