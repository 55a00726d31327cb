package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Common errors that can be returned by the repository
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrMalformedItem   = errors.New("stored account is malformed")
)

// Options tune write semantics shared by every backend.
type Options struct {
	// Timeout bounds each store round trip. Zero means no deadline beyond the caller's.
	Timeout time.Duration

	// ConditionalInsert makes Insert fail with ErrDuplicateEmail when the
	// email is already stored. Without it Insert overwrites.
	ConditionalInsert bool

	// RequireExisting makes UpdatePassword fail with ErrAccountNotFound when
	// no record exists. Without it the update creates the record.
	RequireExisting bool
}

func (o Options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.Timeout)
}
