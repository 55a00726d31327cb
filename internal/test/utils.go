package test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Stewz00/go-account-service/internal/hasher"
	"github.com/Stewz00/go-account-service/internal/interfaces"
	"github.com/Stewz00/go-account-service/internal/model"
	"github.com/Stewz00/go-account-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Repository operation names used for failure injection and call counting.
const (
	OpExists         = "Exists"
	OpFetch          = "Fetch"
	OpInsert         = "Insert"
	OpUpdatePassword = "UpdatePassword"
)

// MockAccountRepository is an in-memory repository that can be told to fail.
type MockAccountRepository struct {
	store *repository.MemoryAccountRepository

	mu       sync.Mutex
	failures map[string]error
	calls    map[string]int
}

// Verify that MockAccountRepository implements AccountRepository interface
var _ interfaces.AccountRepository = (*MockAccountRepository)(nil)

// NewMockAccountRepository returns a mock with source-compatible write
// semantics: unconditional inserts and upserting updates.
func NewMockAccountRepository() *MockAccountRepository {
	return NewMockAccountRepositoryWithOptions(repository.Options{})
}

func NewMockAccountRepositoryWithOptions(opts repository.Options) *MockAccountRepository {
	return &MockAccountRepository{
		store:    repository.NewMemoryAccountRepository(opts),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// FailOn makes every later call to op return err. A nil err clears the failure.
func (r *MockAccountRepository) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, op)
		return
	}
	r.failures[op] = err
}

// FailAll makes every operation return err.
func (r *MockAccountRepository) FailAll(err error) {
	for _, op := range []string{OpExists, OpFetch, OpInsert, OpUpdatePassword} {
		r.FailOn(op, err)
	}
}

// Calls returns how many times op was invoked.
func (r *MockAccountRepository) Calls(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

// Stored returns the raw record for email, bypassing failure injection.
func (r *MockAccountRepository) Stored(email string) (*model.Account, bool) {
	account, err := r.store.Fetch(context.Background(), email)
	return account, err == nil
}

func (r *MockAccountRepository) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
	return r.failures[op]
}

func (r *MockAccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	if err := r.record(OpExists); err != nil {
		return false, err
	}
	return r.store.Exists(ctx, email)
}

func (r *MockAccountRepository) Fetch(ctx context.Context, email string) (*model.Account, error) {
	if err := r.record(OpFetch); err != nil {
		return nil, err
	}
	return r.store.Fetch(ctx, email)
}

func (r *MockAccountRepository) Insert(ctx context.Context, account *model.Account) error {
	if err := r.record(OpInsert); err != nil {
		return err
	}
	return r.store.Insert(ctx, account)
}

func (r *MockAccountRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	if err := r.record(OpUpdatePassword); err != nil {
		return err
	}
	return r.store.UpdatePassword(ctx, email, hashedPassword)
}

// NewHasher returns a bcrypt hasher at the minimum cost to keep tests fast.
func NewHasher() interfaces.PasswordHasher {
	return hasher.NewBcrypt(bcrypt.MinCost)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
