// Package sources provides the sources a library entry can be fetched from.
//
// The Manager resolves sources by ID and hides disabled ones. Two kinds exist:
//   - HTTPSource: a JSON API listing an entry's episodes
//   - LocalSource: a directory tree on an afero filesystem
//
// Sync stores a fetched episode list as local records without ever touching
// seen, bookmark or date_fetch of records that already exist.
package sources
