package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"library-manager/core/database"
	"library-manager/core/reconcile"
	"library-manager/feature/library"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var syncNow = time.UnixMilli(1_700_000_000_000)

func setupRepo(t *testing.T) *library.Repository {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, library.Migrate(db))
	return library.NewRepository(db)
}

func TestSync_Reconcile(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	entry, err := repo.CreateEntry(ctx, reconcile.Entry{Source: 0, URL: "show"})
	require.NoError(t, err)
	src := NewLocalSource(0, afero.NewMemMapFs(), "/")
	sync := NewSync(repo, zap.NewNop()).WithClock(func() time.Time { return syncNow })

	// Existing record with progress that a sync must keep.
	require.NoError(t, repo.SaveEpisodes(ctx, []reconcile.Episode{
		{EntryID: entry.ID, URL: "show/1", Name: "1", Number: 1, DateFetch: 5},
		{EntryID: entry.ID, URL: "show/gone", Name: "gone", Number: 9, DateFetch: 5},
	}))
	eps, err := repo.EpisodesByEntryID(ctx, entry.ID)
	require.NoError(t, err)
	eps[0].Seen = true
	eps[0].Bookmark = true
	require.NoError(t, repo.UpdateEpisodes(ctx, eps[:1]))

	err = sync.Reconcile(ctx, []reconcile.RemoteEpisode{
		{URL: "show/2", Name: "Two", Number: 2},
		{URL: "show/1", Name: "One (fixed)", Number: 1},
		{URL: "show/2", Name: "Two again", Number: 2},
		{URL: "", Name: "broken"},
	}, entry, src)
	require.NoError(t, err)

	after, err := repo.EpisodesByEntryID(ctx, entry.ID)
	require.NoError(t, err)
	byURL := map[string]reconcile.Episode{}
	for _, ep := range after {
		byURL[ep.URL] = ep
	}
	require.Len(t, byURL, 3)

	one := byURL["show/1"]
	assert.Equal(t, "One (fixed)", one.Name)
	assert.True(t, one.Seen)
	assert.True(t, one.Bookmark)
	assert.Equal(t, int64(5), one.DateFetch)
	assert.Equal(t, 1, one.SourceOrder)

	two := byURL["show/2"]
	assert.Equal(t, "Two", two.Name)
	assert.Equal(t, syncNow.UnixMilli(), two.DateFetch)
	assert.False(t, two.Seen)

	assert.Contains(t, byURL, "show/gone", "records missing remotely are kept")
}

type failingWriter struct {
	loadErr error
	saveErr error
	saved   []reconcile.Episode
}

func (f *failingWriter) EpisodesByEntryID(ctx context.Context, entryID int64) ([]reconcile.Episode, error) {
	return nil, f.loadErr
}

func (f *failingWriter) SaveEpisodes(ctx context.Context, episodes []reconcile.Episode) error {
	f.saved = episodes
	return f.saveErr
}

func TestSync_Errors(t *testing.T) {
	src := NewLocalSource(0, afero.NewMemMapFs(), "/")
	remote := []reconcile.RemoteEpisode{{URL: "a", Number: 1}}

	t.Run("Load", func(t *testing.T) {
		w := &failingWriter{loadErr: errors.New("db down")}
		err := NewSync(w, zap.NewNop()).Reconcile(context.Background(), remote, reconcile.Entry{ID: 1}, src)
		assert.ErrorContains(t, err, "db down")
		assert.Nil(t, w.saved)
	})

	t.Run("Save", func(t *testing.T) {
		w := &failingWriter{saveErr: errors.New("constraint")}
		err := NewSync(w, zap.NewNop()).Reconcile(context.Background(), remote, reconcile.Entry{ID: 1}, src)
		assert.ErrorContains(t, err, "constraint")
	})

	t.Run("Nothing to write", func(t *testing.T) {
		w := &failingWriter{saveErr: errors.New("should not be called")}
		err := NewSync(w, zap.NewNop()).Reconcile(context.Background(), nil, reconcile.Entry{ID: 1}, src)
		assert.NoError(t, err)
		assert.Nil(t, w.saved)
	})
}

func TestSync_NilLogger(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	entry, err := repo.CreateEntry(ctx, reconcile.Entry{Source: 0, URL: "show"})
	require.NoError(t, err)

	sync := NewSync(repo, nil)
	require.NotPanics(t, func() {
		err = sync.Reconcile(ctx, []reconcile.RemoteEpisode{{URL: "show/1", Name: "One", Number: 1}}, entry, NewLocalSource(0, afero.NewMemMapFs(), "/"))
	})
	require.NoError(t, err)

	eps, err := repo.EpisodesByEntryID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, eps, 1)
}
