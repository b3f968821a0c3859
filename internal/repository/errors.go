package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// Constraint names from the schema migrations.
const (
	UsersUsernameKey   = "users_username_key"
	UsersEmailKey      = "users_email_key"
	BookmarksUniqueKey = "bookmarks_user_id_story_id_key"
	StoriesAuthorFKey  = "stories_author_id_fkey"
	BookmarksUserFKey  = "bookmarks_user_id_fkey"
	BookmarksStoryFKey = "bookmarks_story_id_fkey"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidEntity    = errors.New("invalid entity")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// DuplicateError reports which unique constraint rejected a write.
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate record violates %q", e.Constraint)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// mapError converts driver errors into the package's sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return &DuplicateError{Constraint: pgErr.ConstraintName, Err: err}
		case foreignKeyViolationCode:
			return fmt.Errorf("%w (%s): %v", ErrInvalidReference, pgErr.ConstraintName, err)
		}
	}

	return err
}

// IsDuplicate reports whether err is a unique violation on constraint.
func IsDuplicate(err error, constraint string) bool {
	var dup *DuplicateError
	return errors.As(err, &dup) && dup.Constraint == constraint
}
