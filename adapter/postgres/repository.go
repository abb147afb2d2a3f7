package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gator/domain"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

type Repository struct{ db *sql.DB }

func New(db *sql.DB) *Repository { return &Repository{db: db} }

func (r *Repository) CreateUser(ctx context.Context, name string) (domain.User, error) {
	u := domain.User{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Name:      name,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, created_at, updated_at, name) VALUES ($1, $2, $3, $4)`,
		u.ID, u.CreatedAt, u.UpdatedAt, u.Name)
	if err != nil {
		return domain.User{}, translate(err)
	}
	return u, nil
}

func (r *Repository) GetUserByName(ctx context.Context, name string) (domain.User, error) {
	var u domain.User
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at, name FROM users WHERE name = $1`, name)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("user %q: %w", name, domain.ErrNotFound)
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, updated_at, name FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteAllUsers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}

func (r *Repository) CreateFeed(ctx context.Context, name, url string, userID uuid.UUID) (domain.Feed, error) {
	f := domain.Feed{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Name:      name,
		URL:       url,
		UserID:    userID,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feeds (id, created_at, updated_at, name, url, user_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.CreatedAt, f.UpdatedAt, f.Name, f.URL, f.UserID)
	if err != nil {
		return domain.Feed{}, translate(err)
	}
	return f, nil
}

func (r *Repository) GetFeedByURL(ctx context.Context, url string) (domain.Feed, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at, name, url, user_id, last_fetched_at FROM feeds WHERE url = $1`, url)
	f, err := scanFeed(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Feed{}, fmt.Errorf("feed with url %q: %w", url, domain.ErrNotFound)
		}
		return domain.Feed{}, err
	}
	return f, nil
}

func (r *Repository) ListFeeds(ctx context.Context) ([]domain.FeedWithOwner, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT f.id, f.created_at, f.updated_at, f.name, f.url, f.user_id, f.last_fetched_at, u.name
FROM feeds f
JOIN users u ON u.id = f.user_id
ORDER BY f.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.FeedWithOwner
	for rows.Next() {
		var fo domain.FeedWithOwner
		var lastFetched sql.NullTime
		if err := rows.Scan(&fo.ID, &fo.CreatedAt, &fo.UpdatedAt, &fo.Name, &fo.URL, &fo.UserID, &lastFetched, &fo.OwnerName); err != nil {
			return nil, err
		}
		if lastFetched.Valid {
			t := lastFetched.Time
			fo.LastFetchedAt = &t
		}
		out = append(out, fo)
	}
	return out, rows.Err()
}

// NextFeedToFetch picks the feed whose last_fetched_at is earliest. NULLS
// FIRST makes never-fetched feeds win over any previously fetched feed.
func (r *Repository) NextFeedToFetch(ctx context.Context) (domain.Feed, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at, name, url, user_id, last_fetched_at FROM feeds ORDER BY last_fetched_at ASC NULLS FIRST LIMIT 1`)
	f, err := scanFeed(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Feed{}, domain.ErrNotFound
		}
		return domain.Feed{}, err
	}
	return f, nil
}

func (r *Repository) MarkFeedFetched(ctx context.Context, feedID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE feeds SET last_fetched_at = now(), updated_at = now() WHERE id = $1`, feedID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("feed %s: %w", feedID, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) CreateFeedFollow(ctx context.Context, userID, feedID uuid.UUID) (domain.FeedFollow, error) {
	ff := domain.FeedFollow{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		UserID:    userID,
		FeedID:    feedID,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feed_follows (id, created_at, updated_at, user_id, feed_id) VALUES ($1, $2, $3, $4, $5)`,
		ff.ID, ff.CreatedAt, ff.UpdatedAt, ff.UserID, ff.FeedID)
	if err != nil {
		return domain.FeedFollow{}, translate(err)
	}
	return ff, nil
}

func (r *Repository) FollowsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT f.id, f.created_at, f.updated_at, f.name, f.url, f.user_id, f.last_fetched_at
FROM feed_follows ff
JOIN feeds f ON f.id = ff.feed_id
WHERE ff.user_id = $1
ORDER BY f.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Feed
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteFeedFollow(ctx context.Context, userID, feedID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM feed_follows WHERE user_id = $1 AND feed_id = $2`, userID, feedID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) CreatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	var publishedAt sql.NullTime
	if p.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *p.PublishedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, created_at, updated_at, title, url, description, published_at, feed_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.CreatedAt, p.UpdatedAt, p.Title, p.URL, p.Description, publishedAt, p.FeedID)
	if err != nil {
		return domain.Post{}, translate(err)
	}
	return p, nil
}

func (r *Repository) PostsForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.PostWithFeed, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.created_at, p.updated_at, p.title, p.url, p.description, p.published_at, p.feed_id, f.name
FROM posts p
JOIN feed_follows ff ON ff.feed_id = p.feed_id
JOIN feeds f ON f.id = p.feed_id
WHERE ff.user_id = $1
ORDER BY p.published_at DESC NULLS LAST
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.PostWithFeed
	for rows.Next() {
		var pf domain.PostWithFeed
		var publishedAt sql.NullTime
		if err := rows.Scan(&pf.ID, &pf.CreatedAt, &pf.UpdatedAt, &pf.Title, &pf.URL, &pf.Description, &publishedAt, &pf.FeedID, &pf.FeedName); err != nil {
			return nil, err
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			pf.PublishedAt = &t
		}
		out = append(out, pf)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeed(row scanner) (domain.Feed, error) {
	var f domain.Feed
	var lastFetched sql.NullTime
	if err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt, &f.Name, &f.URL, &f.UserID, &lastFetched); err != nil {
		return domain.Feed{}, err
	}
	if lastFetched.Valid {
		t := lastFetched.Time
		f.LastFetchedAt = &t
	}
	return f, nil
}

// translate maps pq unique violations onto domain.ConflictError so callers
// can tell which invariant they hit without depending on the driver.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &domain.ConflictError{Constraint: constraintName(string(pqErr.Constraint))}
	}
	return err
}

func constraintName(constraint string) string {
	switch constraint {
	case "users_name_key":
		return "user name"
	case "feeds_url_key":
		return "feed URL"
	case "feed_follows_user_feed_key":
		return "feed follow"
	case "posts_url_key":
		return "post URL"
	}
	return "record"
}
