package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pressroom/core"
	"github.com/poiesic/pressroom/storage"
)

// URLRepository implements storage.URLRepository for BadgerDB.
//
// Each (user, url) pair maps to a single record key, so MarkProcessed is a
// natural upsert: the latest attempt overwrites the prior one. A per-user
// time index supports most-recent-first listing.
type URLRepository struct {
	backend *Backend
}

var _ storage.URLRepository = (*URLRepository)(nil)

// NewURLRepository creates a new URLRepository.
func NewURLRepository(backend *Backend) *URLRepository {
	return &URLRepository{backend: backend}
}

// Close releases resources held by the repository.
// The underlying backend is owned by the caller and closed separately.
func (r *URLRepository) Close() error {
	return nil
}

// IsProcessed reports whether (userID, url) has a record with Status success.
func (r *URLRepository) IsProcessed(ctx context.Context, userID, url string) (bool, error) {
	var processed bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := r.readURLRecord(tx, userID, url)
		if err != nil {
			return err
		}
		processed = record != nil && record.Status == core.StatusSuccess
		return nil
	}, false)
	return processed, err
}

// MarkProcessed upserts the record for (record.UserID, record.URL).
func (r *URLRepository) MarkProcessed(ctx context.Context, record *core.URLRecord) error {
	if err := core.ValidateURLRecord(record); err != nil {
		return err
	}
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now().UTC()
	}

	urlID := core.IDFromContent(record.URL)

	return r.backend.WithTx(func(tx *badger.Txn) error {
		// Drop the old time index entry when overwriting a prior attempt
		old, err := r.readURLRecord(tx, record.UserID, record.URL)
		if err != nil {
			return err
		}
		if old != nil {
			oldTimeKey := makeURLTimeKey(old.UserID, old.ProcessedAt, urlID)
			if err := tx.Delete(oldTimeKey); err != nil {
				return err
			}
		}

		key := makeURLRecordKey(record.UserID, urlID)
		if err := tx.Set(key, storage.MarshalURLRecord(record)); err != nil {
			return err
		}

		timeKey := makeURLTimeKey(record.UserID, record.ProcessedAt, urlID)
		if err := tx.Set(timeKey, storage.MarshalID(urlID)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// FilterNew partitions urls preserving input order. A URL is skipped iff a
// success record exists for it; failed attempts are retried as new.
func (r *URLRepository) FilterNew(ctx context.Context, userID string, urls []string) ([]string, []string, error) {
	newURLs := make([]string, 0, len(urls))
	skipped := make([]string, 0, len(urls))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, url := range urls {
			record, err := r.readURLRecord(tx, userID, url)
			if err != nil {
				return err
			}
			if record != nil && record.Status == core.StatusSuccess {
				skipped = append(skipped, url)
			} else {
				newURLs = append(newURLs, url)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, nil, err
	}

	return newURLs, skipped, nil
}

// ListUserURLs retrieves up to limit records for a user, most recently
// processed first.
func (r *URLRepository) ListUserURLs(ctx context.Context, userID string, limit int) ([]*core.URLRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.URLRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makeURLTimePrefix(userID)

		// Seek past the last possible key in this user's time index
		startKey := make([]byte, len(prefix)+16)
		copy(startKey, prefix)
		for i := len(prefix); i < len(startKey); i++ {
			startKey[i] = 0xFF
		}

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var urlID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				urlID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readURLRecordByID(tx, userID, urlID)
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// readURLRecord reads the record for (userID, url), or nil if absent.
func (r *URLRepository) readURLRecord(tx *badger.Txn, userID, url string) (*core.URLRecord, error) {
	return r.readURLRecordByID(tx, userID, core.IDFromContent(url))
}

// readURLRecordByID reads the record for (userID, urlID), or nil if absent.
func (r *URLRepository) readURLRecordByID(tx *badger.Txn, userID string, urlID core.ID) (*core.URLRecord, error) {
	item, err := tx.Get(makeURLRecordKey(userID, urlID))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.URLRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalURLRecord(val)
		return unmarshalErr
	})
	return record, err
}
