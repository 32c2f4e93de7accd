package models

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidToken
	KindExpired
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidToken:
		return "invalid_token"
	case KindExpired:
		return "expired"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidToken       = errors.New("link is invalid")
	ErrAlreadyActivated   = errors.New("the user has already been activated, you can log in now")
	ErrActivationExpired  = errors.New("activation link has expired, please register again")
	ErrResetExpired       = errors.New("link has already expired")
	ErrDuplicateEmail     = errors.New("user under this email already exists")
	ErrUnknownEmail       = errors.New("email is not registered")
	ErrInvalidPage        = errors.New("invalid page")
	ErrSelfFollow         = errors.New("following your own profile is not allowed")
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not activated")
)

// ValidationError is user-correctable input, reported back field by field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// KindOf classifies err, looking through any wrapping.
func KindOf(err error) Kind {
	var ve *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &ve), errors.Is(err, ErrInvalidPage):
		return KindValidation
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownEmail):
		return KindNotFound
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrAlreadyActivated):
		return KindInvalidToken
	case errors.Is(err, ErrActivationExpired), errors.Is(err, ErrResetExpired):
		return KindExpired
	case errors.Is(err, ErrDuplicateEmail):
		return KindConflict
	case errors.Is(err, ErrSelfFollow), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAccountInactive):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
