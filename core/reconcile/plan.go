package reconcile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// buildPlan reads the state of both entries and computes every mutation the
// migration performs. It does not write anything.
func (r *Reconciler) buildPlan(ctx context.Context, req Request, oldSource, newSource Source) (*Plan, error) {
	plan := &Plan{
		OldID:   req.Old.ID,
		NewID:   req.New.ID,
		Replace: req.Replace,
		Facets:  req.Facets,
		Actions: []Action{},
	}

	if req.Facets.Has(FacetEpisodes) {
		var oldEpisodes, newEpisodes []Episode

		// Both loads are reads of settled rows; run them together.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			oldEpisodes, err = r.deps.Episodes.EpisodesByEntryID(gctx, req.Old.ID)
			if err != nil {
				return fmt.Errorf("load episodes of entry %d: %w", req.Old.ID, err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			newEpisodes, err = r.deps.Episodes.EpisodesByEntryID(gctx, req.New.ID)
			if err != nil {
				return fmt.Errorf("load episodes of entry %d: %w", req.New.ID, err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		rec := ReconcileEpisodes(oldEpisodes, newEpisodes)
		if len(rec.Updated) > 0 {
			reason := fmt.Sprintf("%d of %d records carry old state", len(rec.Updated), len(newEpisodes))
			if rec.HasMaxSeen {
				reason += fmt.Sprintf(", seen up to %g", rec.MaxSeen)
			}
			plan.Actions = append(plan.Actions, Action{
				Type:     ActionUpdateEpisodes,
				Reason:   reason,
				Episodes: rec.Updated,
			})
		}
		plan.Summary.EpisodesUpdated = len(rec.Updated)
		plan.Summary.EpisodesSeen = rec.MarkedSeen
	}

	if req.Facets.Has(FacetCategories) {
		categories, err := r.deps.Categories.CategoriesByEntryID(ctx, req.Old.ID)
		if err != nil {
			return nil, fmt.Errorf("load categories of entry %d: %w", req.Old.ID, err)
		}
		ids := make([]int64, 0, len(categories))
		for _, c := range categories {
			ids = append(ids, c.ID)
		}
		plan.Actions = append(plan.Actions, Action{
			Type:        ActionSetCategories,
			Reason:      fmt.Sprintf("replace memberships with %d categories", len(ids)),
			CategoryIDs: ids,
		})
		plan.Summary.Categories = len(ids)
	}

	if req.Facets.Has(FacetTracks) {
		tracks, err := r.deps.Tracks.TracksByEntryID(ctx, req.Old.ID)
		if err != nil {
			return nil, fmt.Errorf("load tracks of entry %d: %w", req.Old.ID, err)
		}
		migrated, dropped := MigrateTracks(r.deps.Trackers, tracks, req.Old, req.New, oldSource, newSource)
		if len(migrated) > 0 {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionInsertTracks,
				Reason: fmt.Sprintf("rebind %d tracks", len(migrated)),
				Tracks: migrated,
			})
		}
		plan.Summary.TracksMigrated = len(migrated)
		plan.Summary.TracksDropped = dropped
	}

	if req.Replace {
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionRetireOldEntry,
			Reason: "replace: remove old entry from library",
			Update: &EntryUpdate{
				ID:        req.Old.ID,
				Favorite:  ptr(false),
				DateAdded: ptr(int64(0)),
			},
		})
	}

	if req.Facets.Has(FacetCustomCover) {
		// Presence is rechecked against the cache rather than trusted from the caller.
		has, err := r.deps.Covers.HasCustomCover(ctx, req.Old.ID)
		if err != nil {
			return nil, fmt.Errorf("check custom cover of entry %d: %w", req.Old.ID, err)
		}
		if has {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionCopyCover,
				Reason: "old entry has a custom cover",
			})
			plan.Summary.CoverCopied = true
		}
	}

	dateAdded := r.now().UnixMilli()
	if req.Replace {
		dateAdded = req.Old.DateAdded
	}
	plan.Actions = append(plan.Actions, Action{
		Type:   ActionFinalizeEntry,
		Reason: "add new entry to library",
		Update: &EntryUpdate{
			ID:           req.New.ID,
			Favorite:     ptr(true),
			EpisodeFlags: ptr(req.Old.EpisodeFlags),
			ViewerFlags:  ptr(req.Old.ViewerFlags),
			DateAdded:    ptr(dateAdded),
		},
	})

	return plan, nil
}

// applyPlan executes the plan's actions in order and stops at the first
// failure. Actions already executed stay applied.
func (r *Reconciler) applyPlan(ctx context.Context, req Request, plan *Plan) (executed int, err error) {
	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		if err := r.applyAction(ctx, req, action); err != nil {
			return executed, fmt.Errorf("%s: %w", action.Type, err)
		}
		executed++
	}
	return executed, nil
}

func (r *Reconciler) applyAction(ctx context.Context, req Request, action Action) error {
	switch action.Type {
	case ActionUpdateEpisodes:
		return r.deps.Episodes.UpdateEpisodes(ctx, action.Episodes)
	case ActionSetCategories:
		return r.deps.Categories.SetEntryCategories(ctx, req.New.ID, action.CategoryIDs)
	case ActionInsertTracks:
		return r.deps.Tracks.InsertTracks(ctx, action.Tracks)
	case ActionRetireOldEntry, ActionFinalizeEntry:
		return r.deps.Entries.UpdateEntry(ctx, *action.Update)
	case ActionCopyCover:
		rc, err := r.deps.Covers.GetCustomCover(ctx, req.Old.ID)
		if err != nil {
			return err
		}
		defer rc.Close()
		return r.deps.Covers.SetCustomCover(ctx, req.New, rc)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func ptr[T any](v T) *T {
	return &v
}
