package app

import (
	"context"
	"fmt"
	"net/url"

	"gator/domain"
)

// Subscriptions implements follow/unfollow and the per-user browsing views on
// top of the repository.
type Subscriptions struct {
	repo domain.Repository
}

func NewSubscriptions(repo domain.Repository) *Subscriptions {
	return &Subscriptions{repo: repo}
}

// AddFeed creates a feed owned by user and immediately follows it on their
// behalf. A duplicate URL surfaces the repository's conflict untouched.
func (s *Subscriptions) AddFeed(ctx context.Context, user domain.User, name, feedURL string) (domain.Feed, error) {
	if err := validateFeedURL(feedURL); err != nil {
		return domain.Feed{}, err
	}
	feed, err := s.repo.CreateFeed(ctx, name, feedURL, user.ID)
	if err != nil {
		return domain.Feed{}, err
	}
	if _, err := s.repo.CreateFeedFollow(ctx, user.ID, feed.ID); err != nil {
		return domain.Feed{}, err
	}
	return feed, nil
}

// Follow subscribes user to the feed at feedURL.
func (s *Subscriptions) Follow(ctx context.Context, user domain.User, feedURL string) (domain.Feed, error) {
	feed, err := s.repo.GetFeedByURL(ctx, feedURL)
	if err != nil {
		return domain.Feed{}, err
	}
	if _, err := s.repo.CreateFeedFollow(ctx, user.ID, feed.ID); err != nil {
		return domain.Feed{}, err
	}
	return feed, nil
}

// Unfollow removes user's follow of the feed at feedURL. Not following that
// feed is its own error, distinct from the feed not existing at all.
func (s *Subscriptions) Unfollow(ctx context.Context, user domain.User, feedURL string) error {
	feed, err := s.repo.GetFeedByURL(ctx, feedURL)
	if err != nil {
		return err
	}
	n, err := s.repo.DeleteFeedFollow(ctx, user.ID, feed.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFollowingError{URL: feedURL}
	}
	return nil
}

// Following lists the feeds user follows, ordered by feed name.
func (s *Subscriptions) Following(ctx context.Context, user domain.User) ([]domain.Feed, error) {
	return s.repo.FollowsForUser(ctx, user.ID)
}

// Browse returns up to limit posts from feeds user follows, newest first.
func (s *Subscriptions) Browse(ctx context.Context, user domain.User, limit int) ([]domain.PostWithFeed, error) {
	return s.repo.PostsForUser(ctx, user.ID, limit)
}

func validateFeedURL(feedURL string) error {
	u, err := url.ParseRequestURI(feedURL)
	if err != nil {
		return fmt.Errorf("invalid feed URL %q: %w", feedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid feed URL %q: unsupported scheme %q", feedURL, u.Scheme)
	}
	return nil
}
