// Package library is the persistent media library.
//
// The gorm-backed Repository owns the entries, episodes, categories, tracks,
// sources and preferences tables, and implements the stores the migration
// reconciler writes through. Migrate creates the schema and verifies that
// every column a migration touches exists.
//
// Routes:
//   - GET /library      entries currently in the library
//   - GET /library/:id  entry with episodes, categories and tracks
package library
