package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gator/domain"
)

func testDoc(items ...domain.FeedItem) *domain.FeedDocument {
	return &domain.FeedDocument{
		Title:       "Test Blog",
		Link:        "https://example.com",
		Description: "test",
		Items:       items,
	}
}

func item(url string) domain.FeedItem {
	return domain.FeedItem{
		Title:       "a post",
		Link:        url,
		Description: "words",
		PubDate:     "Mon, 06 Jan 2025 10:00:00 +0000",
	}
}

func TestIngestInsertsValidItems(t *testing.T) {
	repo := newMemRepo()
	ing := NewIngestor(repo)

	doc := testDoc(item("https://example.com/1"), item("https://example.com/2"))
	doc.DroppedItems = 3 // five seen, three failed validation upstream

	stats := ing.Ingest(context.Background(), feedID(t, repo), doc)

	assert.Equal(t, 5, stats.Seen)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 2, stats.Inserted)
	assert.Zero(t, stats.Duplicates)
	assert.Zero(t, stats.Failed)
	assert.Len(t, repo.posts, 2)
}

func TestIngestIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	ing := NewIngestor(repo)
	id := feedID(t, repo)
	doc := testDoc(item("https://example.com/1"), item("https://example.com/2"))

	first := ing.Ingest(context.Background(), id, doc)
	require.Equal(t, 2, first.Inserted)

	second := ing.Ingest(context.Background(), id, doc)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 2, second.Duplicates)
	assert.Zero(t, second.Failed)
	assert.Len(t, repo.posts, 2)
}

func TestIngestDuplicateDoesNotBlockSiblings(t *testing.T) {
	repo := newMemRepo()
	ing := NewIngestor(repo)
	id := feedID(t, repo)

	// The same article URL seen through a different feed earlier.
	_ = ing.Ingest(context.Background(), id, testDoc(item("https://example.com/shared")))

	stats := ing.Ingest(context.Background(), id, testDoc(
		item("https://example.com/shared"),
		item("https://example.com/fresh"),
	))

	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Inserted)
}

func TestIngestStorageErrorDoesNotBlockSiblings(t *testing.T) {
	repo := newMemRepo()
	repo.failPostURL = "https://example.com/bad"
	ing := NewIngestor(repo)

	stats := ing.Ingest(context.Background(), feedID(t, repo), testDoc(
		item("https://example.com/bad"),
		item("https://example.com/good"),
	))

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Inserted)
}

func TestIngestUnparsablePubDateIsNull(t *testing.T) {
	repo := newMemRepo()
	ing := NewIngestor(repo)

	it := item("https://example.com/1")
	it.PubDate = "sometime last tuesday"
	stats := ing.Ingest(context.Background(), feedID(t, repo), testDoc(it))

	require.Equal(t, 1, stats.Inserted)
	assert.Nil(t, repo.posts[0].PublishedAt)
}

func TestParsePubDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"rfc1123z", "Mon, 06 Jan 2025 10:00:00 +0000", timePtr(2025, 1, 6, 10)},
		{"rfc1123", "Mon, 06 Jan 2025 10:00:00 UTC", timePtr(2025, 1, 6, 10)},
		{"rfc3339", "2025-01-06T10:00:00Z", timePtr(2025, 1, 6, 10)},
		{"garbage", "yesterday-ish", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePubDate(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func timePtr(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func feedID(t *testing.T, repo *memRepo) uuid.UUID {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), "kahya")
	require.NoError(t, err)
	feed, err := repo.CreateFeed(context.Background(), "blog", "https://example.com/rss", user.ID)
	require.NoError(t, err)
	return feed.ID
}
