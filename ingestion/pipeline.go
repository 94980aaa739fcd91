package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/pressroom/chunk"
	"github.com/poiesic/pressroom/core"
	"github.com/poiesic/pressroom/storage"
)

// Fetcher renders a set of URLs and returns one FetchResult per URL, in the
// same order as the input. Implemented by fetch.Engine.
type Fetcher interface {
	FetchAll(ctx context.Context, urls []string) ([]core.FetchResult, error)
}

// Pipeline orchestrates the ingestion of article URL batches: deduplication,
// concurrent fetching, chunking, and outcome recording.
type Pipeline struct {
	urlRepository storage.URLRepository
	fetcher       Fetcher
	splitter      chunk.Splitter
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithSplitter sets a custom chunk splitter.
// Default is chunk.NewSplitter() with the standard article parameters.
func WithSplitter(splitter chunk.Splitter) Option {
	return func(p *Pipeline) error {
		p.splitter = splitter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(urlRepository storage.URLRepository, fetcher Fetcher, opts ...Option) (*Pipeline, error) {
	if urlRepository == nil {
		return nil, ErrURLRepositoryRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	p := &Pipeline{
		urlRepository: urlRepository,
		fetcher:       fetcher,
		splitter:      chunk.NewSplitter(),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			return nil, optErr
		}
	}

	return p, nil
}

// ProcessURLs ingests one batch of URLs for a user.
//
// Every input URL ends in exactly one of three buckets: skipped (already
// successfully ingested by this user), failed (fetch or extraction error,
// recorded as such), or succeeded (chunked and recorded). Per-URL failures
// are itemized in the outcome; the returned error is non-nil only for fatal
// conditions: batch validation, browser startup, or dedup-store failures.
func (p *Pipeline) ProcessURLs(ctx context.Context, userID string, urls []string) (*core.Outcome, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}
	if err := core.ValidateBatch(urls); err != nil {
		return nil, err
	}

	newURLs, skipped, err := p.urlRepository.FilterNew(ctx, userID, urls)
	if err != nil {
		return nil, fmt.Errorf("filtering URLs: %w", err)
	}

	p.logger.Info("processing batch",
		"user", userID, "urls", len(urls), "new", len(newURLs), "skipped", len(skipped))

	outcome := &core.Outcome{
		Success:        true,
		NewURLs:        len(newURLs),
		SkippedURLs:    len(skipped),
		SkippedURLList: skipped,
	}

	if len(newURLs) == 0 {
		outcome.Message = fmt.Sprintf("All %d URLs were already processed", len(urls))
		return outcome, nil
	}

	results, err := p.fetcher.FetchAll(ctx, newURLs)
	if err != nil {
		return nil, fmt.Errorf("fetching URLs: %w", err)
	}
	if len(results) != len(newURLs) {
		return nil, fmt.Errorf("%w: expected %d, received %d", ErrResultMismatch, len(newURLs), len(results))
	}

	// Successes become documents; failures keep their reason for the outcome
	var documents []core.Document
	var failed []core.FailedURL
	for _, result := range results {
		if result.Success {
			documents = append(documents, core.Document{
				Text:      result.Text,
				SourceURL: result.URL,
				Metadata:  map[string]string{"method": result.Method},
			})
		} else {
			failed = append(failed, core.FailedURL{URL: result.URL, Reason: result.Err})
		}
	}

	chunks, err := p.splitter.SplitDocuments(documents)
	if err != nil {
		return nil, fmt.Errorf("chunking documents: %w", err)
	}

	chunksPerURL := make(map[string]int, len(documents))
	for _, c := range chunks {
		chunksPerURL[c.SourceURL]++
	}

	processedAt := time.Now().UTC()
	for _, doc := range documents {
		numChunks := chunksPerURL[doc.SourceURL]
		if numChunks == 0 {
			// A success that produced no chunks is not usable downstream
			failed = append(failed, core.FailedURL{URL: doc.SourceURL, Reason: "no chunks produced"})
			continue
		}
		if err := p.urlRepository.MarkProcessed(ctx, &core.URLRecord{
			UserID:      userID,
			URL:         doc.SourceURL,
			ProcessedAt: processedAt,
			NumChunks:   numChunks,
			Status:      core.StatusSuccess,
		}); err != nil {
			return nil, fmt.Errorf("recording outcome for %s: %w", doc.SourceURL, err)
		}
	}

	for _, f := range failed {
		p.logger.Warn("URL failed", "user", userID, "url", f.URL, "reason", f.Reason)
		if err := p.urlRepository.MarkProcessed(ctx, &core.URLRecord{
			UserID:      userID,
			URL:         f.URL,
			ProcessedAt: processedAt,
			NumChunks:   0,
			Status:      core.StatusFailed,
		}); err != nil {
			return nil, fmt.Errorf("recording outcome for %s: %w", f.URL, err)
		}
	}

	numDocuments := len(documents) - countUnchunked(documents, chunksPerURL)

	outcome.NumDocuments = numDocuments
	outcome.NumChunks = len(chunks)
	outcome.FailedURLs = len(failed)
	outcome.FailedURLList = failed
	outcome.Chunks = chunks
	outcome.Message = buildMessage(numDocuments, len(chunks), len(skipped), len(failed))

	p.logger.Info("batch complete",
		"user", userID, "documents", numDocuments, "chunks", len(chunks), "failed", len(failed))

	return outcome, nil
}

// countUnchunked counts documents whose text yielded zero chunks.
func countUnchunked(documents []core.Document, chunksPerURL map[string]int) int {
	count := 0
	for _, doc := range documents {
		if chunksPerURL[doc.SourceURL] == 0 {
			count++
		}
	}
	return count
}

// buildMessage composes the human-readable batch summary.
func buildMessage(numDocuments, numChunks, numSkipped, numFailed int) string {
	msg := fmt.Sprintf("Successfully processed %d documents into %d chunks", numDocuments, numChunks)
	if numSkipped > 0 {
		msg += fmt.Sprintf(" (%d URLs skipped as already processed)", numSkipped)
	}
	if numFailed > 0 {
		msg += fmt.Sprintf(", %d URLs failed", numFailed)
	}
	return msg
}
