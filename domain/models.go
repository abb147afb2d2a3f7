package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
}

type Feed struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Name          string
	URL           string
	UserID        uuid.UUID
	LastFetchedAt *time.Time
}

type FeedFollow struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uuid.UUID
	FeedID    uuid.UUID
}

type Post struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string
	URL         string
	Description string
	PublishedAt *time.Time
	FeedID      uuid.UUID
}

// FeedWithOwner is the feeds-listing view: a feed plus the name of the user
// who added it.
type FeedWithOwner struct {
	Feed
	OwnerName string
}

// PostWithFeed is the browse view: a post plus the name of the feed it came
// from.
type PostWithFeed struct {
	Post
	FeedName string
}

// FeedDocument is the validated result of fetching one feed. PubDate stays
// the raw string from the document; parsing happens at ingestion time.
type FeedDocument struct {
	Title       string
	Link        string
	Description string
	Items       []FeedItem
	// DroppedItems counts items discarded during validation. Dropped items
	// produce no errors or diagnostics of their own.
	DroppedItems int
}

type FeedItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string
}
