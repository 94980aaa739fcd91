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


// Package pressroom ingests web articles into chunked documents for
// retrieval-augmented generation.
//
// A Database bundles the deduplication store with pipeline construction:
//
//	db, err := pressroom.NewDatabase("/var/lib/pressroom")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	engine, err := fetch.NewEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Release()
//
//	pipeline, err := db.NewIngestionPipeline(engine)
//	outcome, err := pipeline.ProcessURLs(ctx, "user-1", urls)
package pressroom

import (
	"log/slog"

	"github.com/poiesic/pressroom/ingestion"
	"github.com/poiesic/pressroom/storage"
	"github.com/poiesic/pressroom/storage/badger"
)

type Database struct {
	backend *badger.Backend
	urlRepo storage.URLRepository
	logger  *slog.Logger
}

// NewDatabase opens the deduplication store at filePath, creating it if needed.
func NewDatabase(filePath string) (*Database, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	return &Database{
		backend: backend,
		urlRepo: badger.NewURLRepository(backend),
		logger:  slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.urlRepo.Close(); err != nil {
		db.logger.Error("error closing URL repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) URLRepository() storage.URLRepository {
	return db.urlRepo
}

// NewIngestionPipeline builds a pipeline over this database's URL repository
// and the given fetcher.
func (db *Database) NewIngestionPipeline(fetcher ingestion.Fetcher, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.urlRepo, fetcher, opts...)
}
