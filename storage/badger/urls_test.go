package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/pressroom/core"
	"github.com/poiesic/pressroom/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.URLRepository {
	t.Helper()
	repo, backend, err := NewMemoryURLRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestMarkProcessed_ThenIsProcessed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.MarkProcessed(ctx, &core.URLRecord{
		UserID:    "user-1",
		URL:       "https://example.com/a",
		NumChunks: 3,
		Status:    core.StatusSuccess,
	})
	require.NoError(t, err)

	processed, err := repo.IsProcessed(ctx, "user-1", "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestIsProcessed_UnknownURL(t *testing.T) {
	repo := newTestRepo(t)

	processed, err := repo.IsProcessed(context.Background(), "user-1", "https://example.com/missing")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestIsProcessed_FailedDoesNotCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.MarkProcessed(ctx, &core.URLRecord{
		UserID: "user-1",
		URL:    "https://example.com/broken",
		Status: core.StatusFailed,
	})
	require.NoError(t, err)

	processed, err := repo.IsProcessed(ctx, "user-1", "https://example.com/broken")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestMarkProcessed_UpsertsSingleRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	url := "https://example.com/a"

	err := repo.MarkProcessed(ctx, &core.URLRecord{
		UserID:    "user-1",
		URL:       url,
		NumChunks: 3,
		Status:    core.StatusSuccess,
	})
	require.NoError(t, err)

	// Re-ingesting the same URL overwrites the prior record
	err = repo.MarkProcessed(ctx, &core.URLRecord{
		UserID:    "user-1",
		URL:       url,
		NumChunks: 8,
		Status:    core.StatusSuccess,
	})
	require.NoError(t, err)

	records, err := repo.ListUserURLs(ctx, "user-1", 100)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, url, records[0].URL)
	assert.Equal(t, 8, records[0].NumChunks)
}

func TestMarkProcessed_IsolatedPerUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	url := "https://example.com/shared"

	err := repo.MarkProcessed(ctx, &core.URLRecord{
		UserID:    "user-1",
		URL:       url,
		NumChunks: 2,
		Status:    core.StatusSuccess,
	})
	require.NoError(t, err)

	processed, err := repo.IsProcessed(ctx, "user-2", url)
	require.NoError(t, err)
	assert.False(t, processed, "dedup records must not leak across users")
}

func TestMarkProcessed_InvalidRecord(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.MarkProcessed(context.Background(), &core.URLRecord{
		URL:    "https://example.com/a",
		Status: core.StatusSuccess,
	})
	assert.ErrorIs(t, err, core.ErrEmptyUserID)
}

func TestFilterNew_PreservesInputOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	processed := []string{"https://example.com/b", "https://example.com/d"}
	for _, url := range processed {
		err := repo.MarkProcessed(ctx, &core.URLRecord{
			UserID:    "user-1",
			URL:       url,
			NumChunks: 1,
			Status:    core.StatusSuccess,
		})
		require.NoError(t, err)
	}

	input := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
		"https://example.com/d",
		"https://example.com/e",
	}

	newURLs, skipped, err := repo.FilterNew(ctx, "user-1", input)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/c", "https://example.com/e"}, newURLs)
	assert.Equal(t, []string{"https://example.com/b", "https://example.com/d"}, skipped)
	assert.Equal(t, len(input), len(newURLs)+len(skipped))
}

func TestFilterNew_AllProcessed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	urls := []string{"https://example.com/a", "https://example.com/b"}
	for _, url := range urls {
		err := repo.MarkProcessed(ctx, &core.URLRecord{
			UserID:    "user-1",
			URL:       url,
			NumChunks: 1,
			Status:    core.StatusSuccess,
		})
		require.NoError(t, err)
	}

	newURLs, skipped, err := repo.FilterNew(ctx, "user-1", urls)
	require.NoError(t, err)
	assert.Empty(t, newURLs)
	assert.Equal(t, urls, skipped)
}

func TestFilterNew_FailedAttemptsRetried(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	url := "https://example.com/flaky"

	err := repo.MarkProcessed(ctx, &core.URLRecord{
		UserID: "user-1",
		URL:    url,
		Status: core.StatusFailed,
	})
	require.NoError(t, err)

	newURLs, skipped, err := repo.FilterNew(ctx, "user-1", []string{url})
	require.NoError(t, err)
	assert.Equal(t, []string{url}, newURLs)
	assert.Empty(t, skipped)
}

func TestListUserURLs_MostRecentFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)

	urls := []string{
		"https://example.com/oldest",
		"https://example.com/middle",
		"https://example.com/newest",
	}
	for i, url := range urls {
		err := repo.MarkProcessed(ctx, &core.URLRecord{
			UserID:      "user-1",
			URL:         url,
			ProcessedAt: base.Add(time.Duration(i) * time.Minute),
			NumChunks:   1,
			Status:      core.StatusSuccess,
		})
		require.NoError(t, err)
	}

	records, err := repo.ListUserURLs(ctx, "user-1", 100)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "https://example.com/newest", records[0].URL)
	assert.Equal(t, "https://example.com/middle", records[1].URL)
	assert.Equal(t, "https://example.com/oldest", records[2].URL)
}

func TestListUserURLs_Limit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err := repo.MarkProcessed(ctx, &core.URLRecord{
			UserID:      "user-1",
			URL:         "https://example.com/" + string(rune('a'+i)),
			ProcessedAt: base.Add(time.Duration(i) * time.Minute),
			NumChunks:   1,
			Status:      core.StatusSuccess,
		})
		require.NoError(t, err)
	}

	records, err := repo.ListUserURLs(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://example.com/e", records[0].URL)
	assert.Equal(t, "https://example.com/d", records[1].URL)
}

func TestListUserURLs_InvalidLimit(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.ListUserURLs(context.Background(), "user-1", 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestListUserURLs_ReingestMovesToFront(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)

	err := repo.MarkProcessed(ctx, &core.URLRecord{
		UserID:      "user-1",
		URL:         "https://example.com/a",
		ProcessedAt: base,
		NumChunks:   1,
		Status:      core.StatusSuccess,
	})
	require.NoError(t, err)

	err = repo.MarkProcessed(ctx, &core.URLRecord{
		UserID:      "user-1",
		URL:         "https://example.com/b",
		ProcessedAt: base.Add(time.Minute),
		NumChunks:   1,
		Status:      core.StatusSuccess,
	})
	require.NoError(t, err)

	// Re-ingest the older URL; its single record moves to the front
	err = repo.MarkProcessed(ctx, &core.URLRecord{
		UserID:      "user-1",
		URL:         "https://example.com/a",
		ProcessedAt: base.Add(2 * time.Minute),
		NumChunks:   4,
		Status:      core.StatusSuccess,
	})
	require.NoError(t, err)

	records, err := repo.ListUserURLs(ctx, "user-1", 100)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://example.com/a", records[0].URL)
	assert.Equal(t, "https://example.com/b", records[1].URL)
}
