// Package migration exposes entry migration over HTTP.
//
// Setup assembles a Service from the library database, the installed sources,
// the server trackers and the cover cache. The Service resolves the facet
// selection (explicit, then the stored preference, then the configured
// default), runs the reconciler and records metrics.
//
// Routes:
//   - POST /migration             migrate or dry-run
//   - GET  /migration/status/:id  whether an entry is being migrated
//   - GET  /migration/facets/:id  facets selectable for an entry
package migration
