package services

import (
	"errors"
	"strings"

	"github.com/jellydator/validation"
	"go.uber.org/zap"
)

// Kind classifies a failure. Handlers map each kind to one HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindForbidden
	KindAuthentication
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindAuthentication:
		return "authentication"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error is a typed service failure. Message is safe to show to clients; the
// wrapped cause is for logs only. Two errors match with errors.Is when their
// codes are equal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy carrying a different message (when non-empty) and cause.
func (e *Error) With(message string, cause error) *Error {
	c := *e
	if message != "" {
		c.Message = message
	}
	c.Err = cause
	return &c
}

var (
	ErrMissingField       = &Error{Kind: KindValidation, Code: "missing_field", Message: "Missing required fields"}
	ErrInvalidField       = &Error{Kind: KindValidation, Code: "invalid_field", Message: "Invalid input"}
	ErrUsernameTaken      = &Error{Kind: KindConflict, Code: "username_taken", Message: "Username already exists"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Code: "email_taken", Message: "Email already exists"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "invalid_credentials", Message: "Invalid username or password"}
	ErrNotAuthenticated   = &Error{Kind: KindAuthentication, Code: "not_authenticated", Message: "Authentication required"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "User not found"}
	ErrStoryNotFound      = &Error{Kind: KindNotFound, Code: "story_not_found", Message: "Story not found"}
	ErrBookmarkNotFound   = &Error{Kind: KindNotFound, Code: "bookmark_not_found", Message: "Bookmark not found"}
	ErrForbidden          = &Error{Kind: KindForbidden, Code: "forbidden", Message: "Not authorized to modify this story"}
	ErrPersistence        = &Error{Kind: KindPersistence, Code: "persistence", Message: "Storage failure"}
)

// KindOf returns the kind of err, KindPersistence for untyped errors and 0
// for nil.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

var errBlank = validation.NewError("validation_blank", "cannot be blank")

// notBlank rejects whitespace-only strings; Required already covers "".
var notBlank = validation.NewStringRuleWithError(func(s string) bool {
	return strings.TrimSpace(s) != ""
}, errBlank)

// invalid turns a validation failure into ErrMissingField when a required
// field is absent and ErrInvalidField otherwise.
func invalid(missingMessage string, err error) error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return ErrInvalidField.With("", err)
	}
	for _, fieldErr := range fields {
		var ve validation.Error
		if !errors.As(fieldErr, &ve) {
			continue
		}
		if ve.Code() == validation.ErrRequired.Code() || ve.Code() == errBlank.Code() {
			return ErrMissingField.With(missingMessage, err)
		}
	}
	return ErrInvalidField.With("Invalid input: "+fields.Error(), err)
}

// persistence logs an unexpected storage failure and hides its detail behind
// an operation-specific message.
func persistence(logs *zap.SugaredLogger, op string, err error) error {
	logs.Errorw("storage failure", "op", op, "error", err)
	return ErrPersistence.With("Failed to "+op, err)
}
