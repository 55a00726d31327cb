package service

import "errors"

var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrBackend            = errors.New("account store unavailable")
)

// Kind classifies a service error.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidInput
	KindDuplicate
	KindNotFound
	KindMismatch
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	case KindMismatch:
		return "mismatch"
	default:
		return "backend"
	}
}

// KindOf maps err onto the error taxonomy. Unrecognized errors count as backend failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrDuplicateAccount):
		return KindDuplicate
	case errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return KindMismatch
	default:
		return KindBackend
	}
}
