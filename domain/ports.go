package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port for users, feeds, follows and posts.
// It is the sole enforcer of the uniqueness invariants; violations come back
// as ConflictError and missing rows as ErrNotFound.
type Repository interface {
	CreateUser(ctx context.Context, name string) (User, error)
	GetUserByName(ctx context.Context, name string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	// DeleteAllUsers removes every user; feeds, follows and posts go with
	// them via cascade.
	DeleteAllUsers(ctx context.Context) error

	CreateFeed(ctx context.Context, name, url string, userID uuid.UUID) (Feed, error)
	GetFeedByURL(ctx context.Context, url string) (Feed, error)
	ListFeeds(ctx context.Context) ([]FeedWithOwner, error)
	// NextFeedToFetch returns the feed with the earliest last_fetched_at,
	// never-fetched feeds first. ErrNotFound when no feeds exist.
	NextFeedToFetch(ctx context.Context) (Feed, error)
	// MarkFeedFetched stamps last_fetched_at with the current time. Called
	// before the network fetch so a failing feed still ages out of the
	// next-to-fetch selection.
	MarkFeedFetched(ctx context.Context, feedID uuid.UUID) error

	CreateFeedFollow(ctx context.Context, userID, feedID uuid.UUID) (FeedFollow, error)
	FollowsForUser(ctx context.Context, userID uuid.UUID) ([]Feed, error)
	// DeleteFeedFollow returns the number of follows removed (0 or 1).
	DeleteFeedFollow(ctx context.Context, userID, feedID uuid.UUID) (int64, error)

	CreatePost(ctx context.Context, post Post) (Post, error)
	PostsForUser(ctx context.Context, userID uuid.UUID, limit int) ([]PostWithFeed, error)
}

// Fetcher retrieves a feed document over the network and validates it.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (*FeedDocument, error)
}
