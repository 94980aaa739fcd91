// Package ingestion provides pipeline orchestration for turning URL batches
// into chunked documents.
//
// The Pipeline type manages the ingestion workflow for a batch, including:
//   - Validating the batch (non-empty, at most core.MaxBatchURLs URLs)
//   - Filtering out URLs the user has already ingested
//   - Fetching the remainder concurrently through the fetch engine
//   - Chunking successful documents
//   - Recording per-URL outcomes in the deduplication store
//
// Per-URL fetch failures are recorded and itemized but do not fail the
// batch; partial success is the expected steady state. Validation and
// storage failures are fatal and abort the batch.
package ingestion
