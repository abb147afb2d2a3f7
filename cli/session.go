package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"gator/adapter/postgres"
	"gator/domain"
	"gator/internal/config"
)

// errNotLoggedIn is the auth failure for commands that need an active user.
var errNotLoggedIn = errors.New("no user is currently logged in")

// session is everything a command needs: the config value read for this
// invocation, the database handle and the repository over it.
type session struct {
	cfg  config.Config
	db   *sql.DB
	repo *postgres.Repository
}

// openSession reads the session file and connects to the database, applying
// pending migrations on the way.
func openSession() (*session, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	db, err := postgres.Open(cfg.DBURL)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, db: db, repo: postgres.New(db)}, nil
}

func (s *session) Close() { s.db.Close() }

// currentUser resolves the active user from the session file. Called at the
// top of every login-required command so the auth failure happens before any
// work does.
func (s *session) currentUser(ctx context.Context) (domain.User, error) {
	if s.cfg.CurrentUserName == "" {
		return domain.User{}, errNotLoggedIn
	}
	user, err := s.repo.GetUserByName(ctx, s.cfg.CurrentUserName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("logged-in user %q no longer exists", s.cfg.CurrentUserName)
		}
		return domain.User{}, err
	}
	return user, nil
}
