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


// Package storage provides the storage abstraction layer for pressroom.
//
// This package defines the repository interface that decouples the
// deduplication store from business logic. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - URLRepository: per-user processed-URL records with upsert semantics
//
// The badger subpackage provides the BadgerDB implementation; tests can use
// its in-memory mode:
//
//	repo, backend, err := badger.NewMemoryURLRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer func() {
//	    repo.Close()
//	    backend.Close()
//	}()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
