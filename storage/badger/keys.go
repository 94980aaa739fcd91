package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/pressroom/core"
)

// Key prefixes for different data types
const (
	urlRecordPrefix     = "urlrec"
	urlRecordTimePrefix = "urlrect"
)

// makeURLRecordKey generates a key for a URL record.
// Format: prefix:userID:urlID
// The URL is hashed so that keys stay fixed-size regardless of URL length;
// key uniqueness per (user, url) is what makes MarkProcessed an upsert.
func makeURLRecordKey(userID string, urlID core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:", urlRecordPrefix, userID)
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(urlID))
	return buf
}

// makeURLTimeKey generates a composite key for the per-user time index.
// Format: prefix:userID:timestamp:urlID
// Timestamps and IDs are written in BigEndian order so lexicographic sort
// matches chronological order within a user's prefix.
func makeURLTimeKey(userID string, timestamp time.Time, urlID core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:", urlRecordTimePrefix, userID)
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(urlID))
	return buf
}

// makeURLTimePrefix generates the per-user prefix of the time index.
func makeURLTimePrefix(userID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", urlRecordTimePrefix, userID))
}
