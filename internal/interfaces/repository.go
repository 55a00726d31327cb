package interfaces

import (
	"context"

	"github.com/Stewz00/go-account-service/internal/model"
)

// AccountRepository defines the store operations for accounts keyed by email.
// Each call is a single round trip to the backing store.
type AccountRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	Fetch(ctx context.Context, email string) (*model.Account, error)
	Insert(ctx context.Context, account *model.Account) error
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
}
