// Package reconcile implements cross-source migration of library entries.
//
// When a user moves a series from one source to another, the library holds two
// entries: the old one with the user's progress and the new one freshly found
// on the other source. The Reconciler carries the selected facets of the old
// entry over to the new one:
//   - Episodes: date_fetch and bookmark of records sharing a recognized number,
//     and "seen" for every recognized record up to the highest number seen before
//   - Categories: memberships are replaced by the old entry's
//   - Tracks: rebound to the new entry, remapped by enhanced trackers
//   - Custom cover: copied in the cover cache
//
// # Architecture
//
// The reconciler works through narrow interfaces (adapter.go) so storage,
// sources and trackers live in feature packages:
//
// 1. Fetch: the new source lists its episodes and EpisodeSync stores them.
// A fetch failure aborts with nothing written; a sync failure is only logged.
//
// 2. Plan: both entries are read and every mutation is computed up front as an
// ordered list of Actions. Dry runs stop here.
//
// 3. Apply: actions run in order with one bulk call per facet. The first error
// aborts; earlier actions are not rolled back.
//
// A Guard keyed by entry ID rejects concurrent migrations of the same entry and
// backs the "migrating" flag shown to callers.
//
// # Usage Example
//
//	r := reconcile.NewReconciler(reconcile.Dependencies{...}, logger)
//	plan, err := r.Migrate(ctx, reconcile.Request{
//	    Old:     oldEntry,
//	    New:     newEntry,
//	    Replace: true,
//	    Facets:  reconcile.AllFacets(),
//	})
//	if errors.Is(err, reconcile.ErrSourceUnavailable) {
//	    // nothing was touched
//	}
package reconcile
