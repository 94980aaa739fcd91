// Package chunk splits documents into bounded, overlapping text chunks for
// downstream vector indexing.
package chunk

import (
	"strings"

	"github.com/poiesic/pressroom/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the trailing context shared between consecutive
	// chunks of the same document.
	DefaultChunkOverlap = 200
)

// defaultSeparators is the ordered separator list for recursive splitting:
// paragraph breaks first, then lines, sentences, words, and finally single
// characters when nothing else fits.
var defaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// Splitter deterministically splits document text into chunks. Chunks from
// different documents are never merged, and chunk indices are contiguous
// starting at 0 within each document.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

// SplitterOption configures a Splitter.
type SplitterOption func(*splitterConfig)

type splitterConfig struct {
	chunkSize    int
	chunkOverlap int
}

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) SplitterOption {
	return func(c *splitterConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks.
func WithChunkOverlap(overlap int) SplitterOption {
	return func(c *splitterConfig) {
		if overlap >= 0 {
			c.chunkOverlap = overlap
		}
	}
}

// NewSplitter creates a splitter with the default article chunking
// parameters, optionally overridden.
func NewSplitter(opts ...SplitterOption) Splitter {
	cfg := &splitterConfig{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.chunkSize),
			textsplitter.WithChunkOverlap(cfg.chunkOverlap),
			textsplitter.WithSeparators(defaultSeparators),
		),
	}
}

// SplitDocument splits a single document into indexed chunks.
// Empty or whitespace-only text yields zero chunks.
func (s Splitter) SplitDocument(doc core.Document) ([]core.Chunk, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}

	pieces, err := s.inner.SplitText(doc.Text)
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, core.Chunk{
			Text:      piece,
			SourceURL: doc.SourceURL,
			Index:     i,
		})
	}
	return chunks, nil
}

// SplitDocuments splits each document in order, concatenating the per-document
// chunk lists. Indices restart at 0 for every document.
func (s Splitter) SplitDocuments(docs []core.Document) ([]core.Chunk, error) {
	var chunks []core.Chunk
	for _, doc := range docs {
		docChunks, err := s.SplitDocument(doc)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, docChunks...)
	}
	return chunks, nil
}
