package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, generated from content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the same ID, which gives URL records a
// fixed-size storage key regardless of URL length.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Status records the outcome of an ingestion attempt for a URL.
type Status int

const (
	// StatusSuccess means the URL was fetched, extracted and chunked.
	StatusSuccess Status = iota + 1
	// StatusFailed means the fetch or extraction failed.
	StatusFailed
)

// String returns the storage/display form of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// URLRecord is the persisted fact that a user has attempted to ingest a URL.
// Records are unique per (UserID, URL); re-ingesting overwrites the prior
// record rather than accumulating history.
type URLRecord struct {
	UserID      string
	URL         string
	ProcessedAt time.Time // When the ingestion attempt completed
	NumChunks   int       // Chunks produced; 0 for failed attempts
	Status      Status
}

// FetchResult is the outcome of rendering and extracting a single URL.
// It is produced by the fetch engine and consumed immediately by the
// ingestion pipeline; it is never persisted.
type FetchResult struct {
	URL     string
	Success bool
	Text    string // Cleaned main-content text; empty on failure
	Method  string // Fetch method used, e.g. "chromedp"
	Err     string // Failure reason; empty on success
}

// Document is the cleaned text of one successfully fetched URL.
type Document struct {
	Text      string
	SourceURL string
	Metadata  map[string]string
}

// Chunk is a bounded, overlapping substring of a document's text, the unit
// handed to downstream vector indexing. Index is contiguous starting at 0
// within the source document; chunks from different documents are never merged.
type Chunk struct {
	Text      string
	SourceURL string
	Index     int
}

// FailedURL pairs a URL with the reason its ingestion failed.
type FailedURL struct {
	URL    string
	Reason string
}

// Outcome is the aggregate result of one ingestion batch. Every input URL
// appears in exactly one of skipped, failed or succeeded; partial success is
// the expected steady state, not an error.
type Outcome struct {
	Success        bool
	Message        string
	NumDocuments   int
	NumChunks      int
	NewURLs        int
	SkippedURLs    int
	FailedURLs     int
	SkippedURLList []string
	FailedURLList  []FailedURL
	Chunks         []Chunk // Input for the embedding/storage collaborator
}
