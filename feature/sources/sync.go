package sources

import (
	"context"
	"time"

	"library-manager/core/reconcile"

	"go.uber.org/zap"
)

// EpisodeWriter is the part of the library the sync writes through.
type EpisodeWriter interface {
	EpisodesByEntryID(ctx context.Context, entryID int64) ([]reconcile.Episode, error)

	// SaveEpisodes inserts records without an ID and refreshes source metadata of the rest.
	SaveEpisodes(ctx context.Context, episodes []reconcile.Episode) error
}

// Sync stores a fetched episode list as local records keyed by URL.
// New URLs are inserted, known URLs get their metadata refreshed, and
// records missing from the remote list are kept.
type Sync struct {
	store  EpisodeWriter
	logger *zap.Logger
	now    reconcile.Clock
}

var _ reconcile.EpisodeSync = (*Sync)(nil)

// NewSync creates an episode sync over store.
func NewSync(store EpisodeWriter, logger *zap.Logger) *Sync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sync{store: store, logger: logger, now: time.Now}
}

// WithClock replaces the time source used for date_fetch of new records.
func (s *Sync) WithClock(now reconcile.Clock) *Sync {
	s.now = now
	return s
}

// Reconcile upserts the remote list for entry.
func (s *Sync) Reconcile(ctx context.Context, remote []reconcile.RemoteEpisode, entry reconcile.Entry, source reconcile.Source) error {
	existing, err := s.store.EpisodesByEntryID(ctx, entry.ID)
	if err != nil {
		return err
	}
	byURL := make(map[string]reconcile.Episode, len(existing))
	for _, ep := range existing {
		byURL[ep.URL] = ep
	}

	fetchedAt := s.now().UnixMilli()
	seen := make(map[string]struct{}, len(remote))
	var changes []reconcile.Episode
	inserted := 0

	for i, r := range remote {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}

		if cur, ok := byURL[r.URL]; ok {
			next := cur
			next.Name = r.Name
			next.Number = r.Number
			next.Scanlator = r.Scanlator
			next.DateUpload = r.DateUpload
			next.SourceOrder = i
			if !sameMetadata(cur, next) {
				changes = append(changes, next)
			}
			continue
		}

		changes = append(changes, reconcile.Episode{
			EntryID:     entry.ID,
			URL:         r.URL,
			Name:        r.Name,
			Scanlator:   r.Scanlator,
			Number:      r.Number,
			DateFetch:   fetchedAt,
			DateUpload:  r.DateUpload,
			SourceOrder: i,
		})
		inserted++
	}

	if len(changes) == 0 {
		return nil
	}
	if err := s.store.SaveEpisodes(ctx, changes); err != nil {
		return err
	}

	s.logger.Debug("Episodes synced",
		zap.Int64("entry_id", entry.ID),
		zap.String("source", source.Name()),
		zap.Int("inserted", inserted),
		zap.Int("refreshed", len(changes)-inserted),
	)
	return nil
}

// sameMetadata compares the fields a sync refreshes. NaN numbers never compare equal.
func sameMetadata(a, b reconcile.Episode) bool {
	return a.Name == b.Name &&
		a.Number == b.Number &&
		a.Scanlator == b.Scanlator &&
		a.DateUpload == b.DateUpload &&
		a.SourceOrder == b.SourceOrder
}
