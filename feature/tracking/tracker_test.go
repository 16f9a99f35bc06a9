package tracking

import (
	"context"
	"testing"

	"library-manager/core/reconcile"
	"library-manager/feature/library/models"

	"github.com/stretchr/testify/assert"
)

type stubSource int64

func (s stubSource) ID() int64    { return int64(s) }
func (s stubSource) Name() string { return "stub" }
func (s stubSource) FetchEpisodeList(ctx context.Context, entry reconcile.Entry) ([]reconcile.RemoteEpisode, error) {
	return nil, nil
}

func TestServerTracker(t *testing.T) {
	komga := NewKomga(10, 11)
	old := reconcile.Entry{ID: 1, URL: "/api/v1/series/abc"}
	nw := reconcile.Entry{ID: 2, URL: "/api/v1/series/def"}
	track := reconcile.Track{EntryID: 2, TrackerID: TrackerKomga, RemoteURL: old.URL}

	t.Run("IsTrackFrom", func(t *testing.T) {
		assert.True(t, komga.IsTrackFrom(track, old, stubSource(10)))
		assert.False(t, komga.IsTrackFrom(track, old, stubSource(99)), "foreign source")
		assert.False(t, komga.IsTrackFrom(track, old, nil), "uninstalled source")
		assert.False(t, komga.IsTrackFrom(track, nw, stubSource(10)), "other series")
	})

	t.Run("MigrateTrack to served source", func(t *testing.T) {
		got, ok := komga.MigrateTrack(track, nw, stubSource(11))
		assert.True(t, ok)
		assert.Equal(t, nw.URL, got.RemoteURL)
		assert.Equal(t, track.EntryID, got.EntryID)
	})

	t.Run("MigrateTrack to foreign source declines", func(t *testing.T) {
		_, ok := komga.MigrateTrack(track, nw, stubSource(99))
		assert.False(t, ok)
	})
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry([]models.Source{
		{ID: 10, TrackerID: TrackerKomga},
		{ID: 20, TrackerID: TrackerJellyfin},
		{ID: 30},
	})

	komga, ok := reg.Lookup(TrackerKomga)
	if assert.True(t, ok) {
		assert.Equal(t, "Komga", komga.Name())
		assert.True(t, komga.(*ServerTracker).Accepts(stubSource(10)))
		assert.False(t, komga.(*ServerTracker).Accepts(stubSource(20)))
	}

	jf, ok := reg.Lookup(TrackerJellyfin)
	if assert.True(t, ok) {
		assert.True(t, jf.(*ServerTracker).Accepts(stubSource(20)))
	}

	_, ok = reg.Lookup(1)
	assert.False(t, ok, "plain trackers have no registry entry")
}
