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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/pressroom/core"
)

// URLRecord fields are serialized in declaration order with MUS primitives.
// Timestamps are stored as Unix microseconds.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalURLRecord serializes a URLRecord to bytes.
func MarshalURLRecord(record *core.URLRecord) []byte {
	processedAt := record.ProcessedAt.UnixMicro()
	size := ord.String.Size(record.UserID) +
		ord.String.Size(record.URL) +
		varint.Int64.Size(processedAt) +
		varint.Int.Size(record.NumChunks) +
		varint.Int.Size(int(record.Status))

	buf := make([]byte, size)
	n := ord.String.Marshal(record.UserID, buf)
	n += ord.String.Marshal(record.URL, buf[n:])
	n += varint.Int64.Marshal(processedAt, buf[n:])
	n += varint.Int.Marshal(record.NumChunks, buf[n:])
	varint.Int.Marshal(int(record.Status), buf[n:])
	return buf
}

// UnmarshalURLRecord deserializes a URLRecord from bytes.
func UnmarshalURLRecord(data []byte) (*core.URLRecord, error) {
	var record core.URLRecord
	offset := 0

	userID, n, err := ord.String.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: user ID: %w", ErrSerializationFailed, err)
	}
	record.UserID = userID
	offset += n

	url, n, err := ord.String.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: URL: %w", ErrSerializationFailed, err)
	}
	record.URL = url
	offset += n

	processedAt, n, err := varint.Int64.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: processed at: %w", ErrSerializationFailed, err)
	}
	record.ProcessedAt = time.UnixMicro(processedAt).UTC()
	offset += n

	numChunks, n, err := varint.Int.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: num chunks: %w", ErrSerializationFailed, err)
	}
	record.NumChunks = numChunks
	offset += n

	status, _, err := varint.Int.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: status: %w", ErrSerializationFailed, err)
	}
	record.Status = core.Status(status)

	return &record, nil
}
