package ingestion

import "errors"

var (
	// ErrURLRepositoryRequired is returned when a URL repository is not provided.
	ErrURLRepositoryRequired = errors.New("URL repository required")

	// ErrFetcherRequired is returned when a fetcher is not provided.
	ErrFetcherRequired = errors.New("fetcher required")

	// ErrResultMismatch is returned when the fetcher yields a result list
	// that does not align with the requested URLs.
	ErrResultMismatch = errors.New("fetch result mismatch")
)
