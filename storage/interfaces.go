package storage

import (
	"context"

	"github.com/poiesic/pressroom/core"
)

// URLRepository tracks which URLs each user has ingested. It is the
// deduplication authority for the ingestion pipeline.
// Implementations must be thread-safe and support concurrent access.
type URLRepository interface {
	// IsProcessed reports whether a record exists for (userID, url) with
	// Status success. Failed attempts do not count as processed.
	IsProcessed(ctx context.Context, userID, url string) (bool, error)

	// MarkProcessed upserts the record for (record.UserID, record.URL).
	// Re-ingesting a URL overwrites the prior record rather than
	// accumulating history; the latest attempt wins.
	// Sets ProcessedAt to the current time if zero.
	MarkProcessed(ctx context.Context, record *core.URLRecord) error

	// FilterNew partitions urls into those not yet successfully processed
	// by the user and those already processed. Both output slices preserve
	// the relative order of the input.
	FilterNew(ctx context.Context, userID string, urls []string) (newURLs, skipped []string, err error)

	// ListUserURLs retrieves up to limit records for a user, most recently
	// processed first.
	ListUserURLs(ctx context.Context, userID string, limit int) ([]*core.URLRecord, error)

	// Close releases resources held by the repository.
	Close() error
}
