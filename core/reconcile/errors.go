package reconcile

import "errors"

var (
	// ErrSourceUnavailable means the new entry's source is unknown or disabled. Nothing was mutated.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRemoteFetchFailed means the new source could not list episodes. Nothing was mutated.
	ErrRemoteFetchFailed = errors.New("remote episode fetch failed")

	// ErrSyncFailed means the fetched list could not be stored. Migration continues past it.
	ErrSyncFailed = errors.New("episode sync failed")

	// ErrUnhandled wraps any failure after the fetch phase. Mutations already
	// applied are not rolled back.
	ErrUnhandled = errors.New("migration failed")

	// ErrMigrationInProgress means one of the entries is already being migrated.
	ErrMigrationInProgress = errors.New("migration already in progress")

	// ErrSameEntry means the old and new entry are the same row.
	ErrSameEntry = errors.New("old and new entry are the same")
)
