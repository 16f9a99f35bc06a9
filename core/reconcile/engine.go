package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Dependencies bundles the collaborators a Reconciler works through.
// Trackers may be nil when no enhanced tracker is installed.
type Dependencies struct {
	Sources    SourceManager
	Sync       EpisodeSync
	Episodes   EpisodeStore
	Categories CategoryStore
	Tracks     TrackStore
	Entries    EntryStore
	Covers     CoverCache
	Trackers   TrackerLookup
}

// Reconciler migrates a library entry onto an entry from another source.
type Reconciler struct {
	deps   Dependencies
	guard  *Guard
	logger *zap.Logger
	now    Clock
}

// NewReconciler creates a reconciler with its own in-progress guard.
func NewReconciler(deps Dependencies, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		deps:   deps,
		guard:  NewGuard(),
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for the new entry's added date.
func (r *Reconciler) WithClock(now Clock) *Reconciler {
	r.now = now
	return r
}

// Migrating reports whether entryID is part of a running migration.
func (r *Reconciler) Migrating(entryID int64) bool {
	return r.guard.Migrating(entryID)
}

// Migrate moves the selected facets of req.Old onto req.New.
//
// Failing to resolve the new source or to fetch its episode list aborts before
// anything is written. Failing to store the fetched list is logged and the
// migration continues with the records already stored. Any later failure
// aborts the remaining steps without rolling back the ones already applied.
func (r *Reconciler) Migrate(ctx context.Context, req Request) (*Plan, error) {
	if req.Old.ID == req.New.ID {
		return nil, fmt.Errorf("entry %d: %w", req.Old.ID, ErrSameEntry)
	}

	source := r.deps.Sources.Get(req.New.Source)
	if source == nil {
		return nil, fmt.Errorf("source %d: %w", req.New.Source, ErrSourceUnavailable)
	}
	oldSource := r.deps.Sources.Get(req.Old.Source)

	release, err := r.guard.Acquire(req.Old.ID, req.New.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	l := r.logger.With(
		zap.Int64("old_id", req.Old.ID),
		zap.Int64("new_id", req.New.ID),
		zap.String("source", source.Name()),
		zap.Bool("replace", req.Replace),
		zap.Stringer("facets", req.Facets),
	)

	remote, err := source.FetchEpisodeList(ctx, req.New)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRemoteFetchFailed, source.Name(), err)
	}

	syncFailed := false
	if !req.DryRun {
		if err := r.deps.Sync.Reconcile(ctx, remote, req.New, source); err != nil {
			// Worst case the episodes facet works on a stale list.
			syncFailed = true
			l.Warn("Episode sync failed, continuing", zap.Error(errors.Join(ErrSyncFailed, err)))
		}
	}

	plan, err := r.buildPlan(ctx, req, oldSource, source)
	if err != nil {
		return nil, fmt.Errorf("%w: plan: %w", ErrUnhandled, err)
	}
	plan.FetchedEpisodes = len(remote)
	plan.SyncFailed = syncFailed

	if req.DryRun {
		l.Debug("Dry-run plan built", zap.Int("actions", len(plan.Actions)))
		return plan, nil
	}

	executed, err := r.applyPlan(ctx, req, plan)
	if err != nil {
		l.Error("Migration aborted", zap.Int("executed", executed), zap.Int("planned", len(plan.Actions)), zap.Error(err))
		return plan, fmt.Errorf("%w: %w", ErrUnhandled, err)
	}

	l.Info("Migration finished",
		zap.Int("episodes_updated", plan.Summary.EpisodesUpdated),
		zap.Int("tracks_migrated", plan.Summary.TracksMigrated),
		zap.Bool("cover_copied", plan.Summary.CoverCopied),
	)
	return plan, nil
}
