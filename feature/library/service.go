package library

import (
	"context"

	"library-manager/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EntryDetail is an entry with everything a migration can carry over.
type EntryDetail struct {
	Entry      reconcile.Entry      `json:"entry"`
	Episodes   []reconcile.Episode  `json:"episodes"`
	Categories []reconcile.Category `json:"categories"`
	Tracks     []reconcile.Track    `json:"tracks"`
}

// Service serves read access to the library.
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a library service.
func NewService(repo *Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Favorites lists the entries in the library.
func (s *Service) Favorites(ctx context.Context) ([]reconcile.Entry, error) {
	return s.repo.Favorites(ctx)
}

// Detail loads an entry with its episodes, categories and tracks.
func (s *Service) Detail(ctx context.Context, id int64) (*EntryDetail, error) {
	entry, err := s.repo.EntryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &EntryDetail{Entry: entry}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Episodes, err = s.repo.EpisodesByEntryID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Categories, err = s.repo.CategoriesByEntryID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Tracks, err = s.repo.TracksByEntryID(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Failed to load entry detail", zap.Int64("entry_id", id), zap.Error(err))
		return nil, err
	}
	return detail, nil
}
