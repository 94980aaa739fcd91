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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyBatch indicates an ingestion request with no URLs.
	ErrEmptyBatch = errors.New("URL list cannot be empty")

	// ErrBatchTooLarge indicates an ingestion request exceeding the batch cap.
	ErrBatchTooLarge = errors.New("too many URLs in batch")

	// ErrInvalidURLRecord indicates a URLRecord failed validation.
	ErrInvalidURLRecord = errors.New("invalid URL record")

	// ErrEmptyUserID indicates the UserID field is empty.
	ErrEmptyUserID = errors.New("user ID cannot be empty")

	// ErrEmptyURL indicates the URL field is empty.
	ErrEmptyURL = errors.New("URL cannot be empty")

	// ErrInvalidStatus indicates an invalid Status value.
	ErrInvalidStatus = errors.New("invalid status")
)
