package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gator/domain"
)

// memRepo is an in-memory domain.Repository with the same uniqueness and
// ordering semantics as the postgres adapter. Shared by the app-layer tests.
type memRepo struct {
	mu      sync.Mutex
	users   []domain.User
	feeds   []domain.Feed
	follows []domain.FeedFollow
	posts   []domain.Post

	// calls records mutating operations in order, for assertions about
	// mark-before-fetch style sequencing.
	calls []string
	// failPostURL makes CreatePost fail with a non-conflict error for the
	// given post URL.
	failPostURL string
}

func newMemRepo() *memRepo { return &memRepo{} }

func (m *memRepo) record(call string) {
	m.calls = append(m.calls, call)
}

// logCall records a call from outside the repo (e.g. a stub fetcher).
func (m *memRepo) logCall(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(call)
}

func (m *memRepo) CreateUser(_ context.Context, name string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == name {
			return domain.User{}, &domain.ConflictError{Constraint: "user name"}
		}
	}
	u := domain.User{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now(), Name: name}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memRepo) GetUserByName(_ context.Context, name string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == name {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %q: %w", name, domain.ErrNotFound)
}

func (m *memRepo) ListUsers(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.User(nil), m.users...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) DeleteAllUsers(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = nil
	m.feeds = nil
	m.follows = nil
	m.posts = nil
	return nil
}

func (m *memRepo) CreateFeed(_ context.Context, name, url string, userID uuid.UUID) (domain.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.feeds {
		if f.URL == url {
			return domain.Feed{}, &domain.ConflictError{Constraint: "feed URL"}
		}
	}
	f := domain.Feed{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now(), Name: name, URL: url, UserID: userID}
	m.feeds = append(m.feeds, f)
	return f, nil
}

func (m *memRepo) GetFeedByURL(_ context.Context, url string) (domain.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.feeds {
		if f.URL == url {
			return f, nil
		}
	}
	return domain.Feed{}, fmt.Errorf("feed with url %q: %w", url, domain.ErrNotFound)
}

func (m *memRepo) ListFeeds(context.Context) ([]domain.FeedWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FeedWithOwner
	for _, f := range m.feeds {
		fo := domain.FeedWithOwner{Feed: f}
		for _, u := range m.users {
			if u.ID == f.UserID {
				fo.OwnerName = u.Name
			}
		}
		out = append(out, fo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) NextFeedToFetch(context.Context) (domain.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.feeds) == 0 {
		return domain.Feed{}, domain.ErrNotFound
	}
	best := m.feeds[0]
	for _, f := range m.feeds[1:] {
		if earlier(f.LastFetchedAt, best.LastFetchedAt) {
			best = f
		}
	}
	return best, nil
}

// earlier treats a nil timestamp as earliest of all.
func earlier(a, b *time.Time) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}

func (m *memRepo) MarkFeedFetched(_ context.Context, feedID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("mark:" + feedID.String())
	for i := range m.feeds {
		if m.feeds[i].ID == feedID {
			now := time.Now()
			m.feeds[i].LastFetchedAt = &now
			m.feeds[i].UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("feed %s: %w", feedID, domain.ErrNotFound)
}

func (m *memRepo) CreateFeedFollow(_ context.Context, userID, feedID uuid.UUID) (domain.FeedFollow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ff := range m.follows {
		if ff.UserID == userID && ff.FeedID == feedID {
			return domain.FeedFollow{}, &domain.ConflictError{Constraint: "feed follow"}
		}
	}
	ff := domain.FeedFollow{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now(), UserID: userID, FeedID: feedID}
	m.follows = append(m.follows, ff)
	return ff, nil
}

func (m *memRepo) FollowsForUser(_ context.Context, userID uuid.UUID) ([]domain.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Feed
	for _, ff := range m.follows {
		if ff.UserID != userID {
			continue
		}
		for _, f := range m.feeds {
			if f.ID == ff.FeedID {
				out = append(out, f)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) DeleteFeedFollow(_ context.Context, userID, feedID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, ff := range m.follows {
		if ff.UserID == userID && ff.FeedID == feedID {
			m.follows = append(m.follows[:i], m.follows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memRepo) CreatePost(_ context.Context, p domain.Post) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.URL == m.failPostURL && m.failPostURL != "" {
		return domain.Post{}, fmt.Errorf("storage blew up")
	}
	for _, existing := range m.posts {
		if existing.URL == p.URL {
			return domain.Post{}, &domain.ConflictError{Constraint: "post URL"}
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.posts = append(m.posts, p)
	return p, nil
}

func (m *memRepo) PostsForUser(_ context.Context, userID uuid.UUID, limit int) ([]domain.PostWithFeed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	followed := map[uuid.UUID]string{}
	for _, ff := range m.follows {
		if ff.UserID != userID {
			continue
		}
		for _, f := range m.feeds {
			if f.ID == ff.FeedID {
				followed[f.ID] = f.Name
			}
		}
	}
	var out []domain.PostWithFeed
	for _, p := range m.posts {
		if name, ok := followed[p.FeedID]; ok {
			out = append(out, domain.PostWithFeed{Post: p, FeedName: name})
		}
	}
	// published_at descending, nulls last
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
