package repository

import (
	"context"
	"sync"

	"github.com/Stewz00/go-account-service/internal/interfaces"
	"github.com/Stewz00/go-account-service/internal/model"
)

// MemoryAccountRepository keeps accounts in process memory. It follows the
// same write semantics as the persistent backends and is meant for local
// runs and tests.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
	opts     Options
}

var _ interfaces.AccountRepository = (*MemoryAccountRepository)(nil)

func NewMemoryAccountRepository(opts Options) *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]model.Account),
		opts:     opts,
	}
}

func (r *MemoryAccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.accounts[email]
	return ok, nil
}

func (r *MemoryAccountRepository) Fetch(ctx context.Context, email string) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}

func (r *MemoryAccountRepository) Insert(ctx context.Context, account *model.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !account.Valid() {
		return ErrMalformedItem
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Email]; ok && r.opts.ConditionalInsert {
		return ErrDuplicateEmail
	}
	r.accounts[account.Email] = *account
	return nil
}

func (r *MemoryAccountRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email == "" || hashedPassword == "" {
		return ErrMalformedItem
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[email]; !ok && r.opts.RequireExisting {
		return ErrAccountNotFound
	}
	r.accounts[email] = model.Account{Email: email, HashedPassword: hashedPassword}
	return nil
}
