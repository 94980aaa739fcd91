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

import "fmt"

// MaxBatchURLs is the maximum number of URLs accepted in one ingestion batch.
// The cap also bounds per-batch fetch concurrency, since all URLs of a batch
// are fetched in parallel.
const MaxBatchURLs = 10

// ValidateBatch validates a caller-supplied URL batch.
//
// Validation rules:
//   - the list must not be empty
//   - the list must not exceed MaxBatchURLs entries
//   - no URL may be empty
//
// Validation failures are fatal to the batch and surface before any fetch.
func ValidateBatch(urls []string) error {
	if len(urls) == 0 {
		return ErrEmptyBatch
	}
	if len(urls) > MaxBatchURLs {
		return fmt.Errorf("%w: got %d, maximum is %d", ErrBatchTooLarge, len(urls), MaxBatchURLs)
	}
	for i, u := range urls {
		if u == "" {
			return fmt.Errorf("%w: position %d", ErrEmptyURL, i)
		}
	}
	return nil
}

// ValidateURLRecord validates a URLRecord according to domain rules.
//
// Validation rules:
//   - UserID must not be empty
//   - URL must not be empty
//   - Status must be valid (success or failed)
//
// NOT validated:
//   - ProcessedAt (set by the repository on upsert if zero)
//   - NumChunks (0 is valid for failed attempts)
func ValidateURLRecord(record *URLRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidURLRecord)
	}

	if record.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidURLRecord, ErrEmptyUserID)
	}

	if record.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidURLRecord, ErrEmptyURL)
	}

	if err := ValidateStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURLRecord, err)
	}

	return nil
}

// ValidateStatus validates that a Status has a valid value.
func ValidateStatus(status Status) error {
	if status != StatusSuccess && status != StatusFailed {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}
