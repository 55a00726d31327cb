package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Stewz00/go-account-service/internal/hasher"
	"github.com/Stewz00/go-account-service/internal/interfaces"
	"github.com/Stewz00/go-account-service/internal/model"
	"github.com/Stewz00/go-account-service/internal/repository"
)

// AccountService applies the account rules on top of the store. It holds no
// cached state; every call goes to the repository.
type AccountService struct {
	accounts interfaces.AccountRepository
	hasher   interfaces.PasswordHasher
	logger   *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accounts interfaces.AccountRepository, passwords interfaces.PasswordHasher, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		accounts: accounts,
		hasher:   passwords,
		logger:   logger.With("component", "account_service"),
	}
}

// Register creates an account unless one already exists for email.
// The existence check and the insert are separate round trips; a repository
// configured with conditional inserts closes the gap between them.
func (s *AccountService) Register(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	exists, err := s.accounts.Exists(ctx, email)
	if err != nil {
		return s.backendError(ctx, "register", email, err)
	}
	if exists {
		s.logger.WarnContext(ctx, "account already exists", "email", email)
		return ErrDuplicateAccount
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	err = s.accounts.Insert(ctx, &model.Account{Email: email, HashedPassword: hashed})
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		s.logger.WarnContext(ctx, "account created concurrently", "email", email)
		return ErrDuplicateAccount
	case err != nil:
		return s.backendError(ctx, "register", email, err)
	}

	s.logger.InfoContext(ctx, "account created", "email", email)
	return nil
}

// Login verifies password against the stored hash for email.
func (s *AccountService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	account, err := s.accounts.Fetch(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrAccountNotFound)
	}
	if err != nil {
		return s.backendError(ctx, "login", email, err)
	}

	if !s.hasher.Verify(password, account.HashedPassword) {
		s.logger.InfoContext(ctx, "password mismatch", "email", email)
		return ErrInvalidCredentials
	}
	return nil
}

// AccountExists reports whether an account is stored under email.
func (s *AccountService) AccountExists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, ErrInvalidInput
	}

	exists, err := s.accounts.Exists(ctx, email)
	if err != nil {
		return false, s.backendError(ctx, "exists", email, err)
	}
	return exists, nil
}

// UpdatePassword hashes password and overwrites the stored hash. Whether a
// missing account is created or reported depends on the repository's update policy.
func (s *AccountService) UpdatePassword(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	err = s.accounts.UpdatePassword(ctx, email, hashed)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return ErrAccountNotFound
	case err != nil:
		return s.backendError(ctx, "update_password", email, err)
	}

	s.logger.InfoContext(ctx, "password updated", "email", email)
	return nil
}

func (s *AccountService) hashPassword(password string) (string, error) {
	hashed, err := s.hasher.Hash(password)
	if errors.Is(err, hasher.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hashed, nil
}

func (s *AccountService) backendError(ctx context.Context, op, email string, err error) error {
	s.logger.ErrorContext(ctx, "account store call failed", "op", op, "email", email, "error", err)
	return fmt.Errorf("%w: %w", ErrBackend, err)
}
