package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced user, feed or follow does not
// exist. Callers are expected to wrap it with the identifying value.
var ErrNotFound = errors.New("not found")

// ErrFetchFailed covers network-level fetch problems, including non-success
// HTTP statuses.
var ErrFetchFailed = errors.New("fetch failed")

// ErrInvalidFeed means the response body was not a feed document with the
// required channel metadata. The whole fetch fails; nothing is ingested.
var ErrInvalidFeed = errors.New("invalid feed")

// ConflictError reports a uniqueness violation. Constraint names the violated
// invariant: "user name", "feed URL", "feed follow" or "post URL". Conflicts
// are expected, recoverable outcomes when commands or overlapping processes
// race; they never indicate partial mutation.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Constraint)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// NotFollowingError is returned by unfollow when the user has no follow for
// the feed at the given URL. The URL is part of the message so the user can
// see exactly which argument missed.
type NotFollowingError struct {
	URL string
}

func (e *NotFollowingError) Error() string {
	return fmt.Sprintf("you are not following %q", e.URL)
}
