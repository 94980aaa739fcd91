// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/pressroom"
	"github.com/poiesic/pressroom/ai"
	"github.com/poiesic/pressroom/ai/openai"
	"github.com/poiesic/pressroom/core"
	"github.com/poiesic/pressroom/fetch"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "pressroom",
		Usage: "Ingest web articles into chunked documents for RAG",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Fetch, chunk, and record a batch of article URLs",
				ArgsUsage: "URL [URL...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User identifier for deduplication scoping",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "nav-timeout",
						Usage: "Per-URL navigation timeout",
						Value: 30 * time.Second,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (embeds chunks when embedding-model is set)",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name; when set, chunks are embedded after ingestion",
					},
				},
			},
			{
				Name:   "urls",
				Usage:  "List a user's processed URLs, most recent first",
				Action: urlsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User identifier",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of URLs to list",
						Value: 100,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	urls := c.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("at least one URL argument is required")
	}

	db, err := pressroom.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	engine, err := fetch.NewEngine(fetch.WithNavigationTimeout(c.Duration("nav-timeout")))
	if err != nil {
		return fmt.Errorf("failed to create fetch engine: %w", err)
	}
	defer engine.Release()

	pipeline, err := db.NewIngestionPipeline(engine)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	outcome, err := pipeline.ProcessURLs(ctx, c.String("user"), urls)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println(outcome.Message)
	for _, skipped := range outcome.SkippedURLList {
		fmt.Printf("  skipped: %s\n", skipped)
	}
	for _, failed := range outcome.FailedURLList {
		fmt.Printf("  failed:  %s (%s)\n", failed.URL, failed.Reason)
	}

	if model := c.String("embedding-model"); model != "" {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(model),
		)
		if err := aiConfig.Validate(); err != nil {
			return fmt.Errorf("invalid AI configuration: %w", err)
		}

		embedder, err := openai.NewEmbedder(aiConfig)
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}

		embedded, err := embedChunks(ctx, embedder, outcome.Chunks)
		if err != nil {
			return fmt.Errorf("embedding failed: %w", err)
		}
		fmt.Printf("Embedded %d chunks with %s\n", embedded, model)
	}

	return nil
}

// embedChunks runs the batch's chunks through the embedding service and
// returns how many were embedded.
func embedChunks(ctx context.Context, embedder ai.Embedder, chunks []core.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, err
	}

	return len(vectors), nil
}

func urlsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := pressroom.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	records, err := db.URLRepository().ListUserURLs(ctx, c.String("user"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list URLs: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No processed URLs found")
		return nil
	}

	for _, record := range records {
		fmt.Println(formatRecord(record))
	}
	return nil
}

// formatRecord renders one URL record as a single display line.
func formatRecord(record *core.URLRecord) string {
	return fmt.Sprintf("%s  %-7s  %3d chunks  %s",
		record.ProcessedAt.Format(time.RFC3339),
		record.Status.String(),
		record.NumChunks,
		record.URL)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
