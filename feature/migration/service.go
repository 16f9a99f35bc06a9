package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-manager/core/metrics"
	"library-manager/core/reconcile"

	"go.uber.org/zap"
)

// Store is the part of the library the service reads entries and the
// stored facet selection from.
type Store interface {
	EntryByID(ctx context.Context, id int64) (reconcile.Entry, error)
	MigrateFacets(ctx context.Context) (reconcile.FacetSet, bool, error)
	SetMigrateFacets(ctx context.Context, facets reconcile.FacetSet) error
}

// CoverChecker reports custom cover presence.
type CoverChecker interface {
	HasCustomCover(ctx context.Context, entryID int64) (bool, error)
}

// MigrateInput describes a migration request by entry IDs.
type MigrateInput struct {
	OldID   int64
	NewID   int64
	Replace bool

	// Facets is the explicit selection. Nil falls back to the stored
	// selection, then to the configured default.
	Facets *reconcile.FacetSet

	DryRun bool
}

// FacetOption is one selectable facet of a migration.
type FacetOption struct {
	Facet    reconcile.Facet `json:"-"`
	Name     string          `json:"name"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Enabled  bool            `json:"enabled"`
}

// Service runs migrations between library entries.
type Service struct {
	reconciler *reconcile.Reconciler
	store      Store
	covers     CoverChecker
	defaults   reconcile.FacetSet
	logger     *zap.Logger
}

// NewService creates a migration service.
func NewService(reconciler *reconcile.Reconciler, store Store, covers CoverChecker, defaults reconcile.FacetSet, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reconciler: reconciler,
		store:      store,
		covers:     covers,
		defaults:   defaults,
		logger:     logger,
	}
}

// Migrating reports whether entryID is part of a running migration.
func (s *Service) Migrating(entryID int64) bool {
	return s.reconciler.Migrating(entryID)
}

// Migrate loads both entries and migrates the selected facets from the old
// entry onto the new one. An explicit selection used to replace is stored as
// the next default before the migration runs.
func (s *Service) Migrate(ctx context.Context, in MigrateInput) (*reconcile.Plan, error) {
	oldEntry, err := s.store.EntryByID(ctx, in.OldID)
	if err != nil {
		return nil, err
	}
	newEntry, err := s.store.EntryByID(ctx, in.NewID)
	if err != nil {
		return nil, err
	}

	facets, err := s.resolveFacets(ctx, in.Facets)
	if err != nil {
		return nil, err
	}

	if in.Replace && in.Facets != nil && !in.DryRun {
		if err := s.store.SetMigrateFacets(ctx, facets); err != nil {
			s.logger.Warn("Failed to store migration facets", zap.Error(err))
		}
	}

	metrics.MigrationStarted()
	defer metrics.MigrationFinished()
	start := time.Now()

	plan, err := s.reconciler.Migrate(ctx, reconcile.Request{
		Old:     oldEntry,
		New:     newEntry,
		Replace: in.Replace,
		Facets:  facets,
		DryRun:  in.DryRun,
	})

	outcome := outcomeOf(err, in.DryRun)
	metrics.ObserveMigration(outcome, time.Since(start))
	if plan != nil && !in.DryRun {
		if plan.SyncFailed {
			metrics.IncSyncFailures()
		}
		metrics.AddTracksDropped(plan.Summary.TracksDropped)
	}

	if err != nil {
		s.logger.Warn("Migration did not complete",
			zap.Int64("old_id", in.OldID),
			zap.Int64("new_id", in.NewID),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
	return plan, err
}

func outcomeOf(err error, dryRun bool) string {
	switch {
	case err == nil && dryRun:
		return metrics.OutcomeDryRun
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, reconcile.ErrMigrationInProgress),
		errors.Is(err, reconcile.ErrSourceUnavailable),
		errors.Is(err, reconcile.ErrSameEntry):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

// resolveFacets picks the explicit selection, the stored one, or the default.
func (s *Service) resolveFacets(ctx context.Context, explicit *reconcile.FacetSet) (reconcile.FacetSet, error) {
	if explicit != nil {
		return *explicit, nil
	}
	stored, ok, err := s.store.MigrateFacets(ctx)
	if err != nil {
		return reconcile.FacetSet{}, fmt.Errorf("failed to read stored facets: %w", err)
	}
	if ok {
		return stored, nil
	}
	return s.defaults, nil
}

// Facets lists the facets selectable when migrating oldID. The custom cover
// facet is only offered when the old entry has one.
func (s *Service) Facets(ctx context.Context, oldID int64) ([]FacetOption, error) {
	entry, err := s.store.EntryByID(ctx, oldID)
	if err != nil {
		return nil, err
	}
	selected, err := s.resolveFacets(ctx, nil)
	if err != nil {
		return nil, err
	}
	hasCover, err := s.covers.HasCustomCover(ctx, oldID)
	if err != nil {
		return nil, err
	}

	var options []FacetOption
	for _, f := range reconcile.Facets() {
		if f == reconcile.FacetCustomCover && !hasCover {
			continue
		}
		options = append(options, FacetOption{
			Facet:    f,
			Name:     f.String(),
			Title:    f.Title(entry.Kind),
			Position: int(f),
			Enabled:  selected.Has(f),
		})
	}
	return options, nil
}
