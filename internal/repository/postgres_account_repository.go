package repository

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"

	"github.com/Stewz00/go-account-service/internal/database"
	"github.com/Stewz00/go-account-service/internal/interfaces"
	"github.com/Stewz00/go-account-service/internal/model"
)

const uniqueViolation = "23505"

// pgxQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PostgresAccountRepository keeps accounts in a single keyed table:
//
//	CREATE TABLE accounts (email TEXT PRIMARY KEY, hashed_password TEXT NOT NULL)
type PostgresAccountRepository struct {
	db   pgxQuerier
	opts Options
}

// Verify that PostgresAccountRepository implements AccountRepository interface
var _ interfaces.AccountRepository = (*PostgresAccountRepository)(nil)

// NewPostgresAccountRepository creates a repository over the pool in db
func NewPostgresAccountRepository(db *database.DB, opts Options) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db.Pool, opts: opts}
}

// Exists reports whether a row with the exact email is present
func (r *PostgresAccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`,
		email).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "select account")
	}
	return exists, nil
}

// Fetch retrieves an account by its email address
func (r *PostgresAccountRepository) Fetch(ctx context.Context, email string) (*model.Account, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	var account model.Account
	err := r.db.QueryRow(ctx,
		`SELECT email, hashed_password
		 FROM accounts
		 WHERE email = $1`,
		email).Scan(&account.Email, &account.HashedPassword)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select account")
	}
	if !account.Valid() {
		return nil, ErrMalformedItem
	}
	return &account, nil
}

// Insert stores a new account. With ConditionalInsert an existing row is left
// untouched and ErrDuplicateEmail is returned; otherwise the row is overwritten.
func (r *PostgresAccountRepository) Insert(ctx context.Context, account *model.Account) error {
	if !account.Valid() {
		return ErrMalformedItem
	}

	if !r.opts.ConditionalInsert {
		return r.upsert(ctx, account.Email, account.HashedPassword)
	}

	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`INSERT INTO accounts (email, hashed_password)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING`,
		account.Email, account.HashedPassword)
	if err != nil {
		return wrapPgError(err, "insert account")
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateEmail
	}
	return nil
}

// UpdatePassword overwrites the stored hash, creating the row unless RequireExisting is set
func (r *PostgresAccountRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	if email == "" || hashedPassword == "" {
		return ErrMalformedItem
	}

	if !r.opts.RequireExisting {
		return r.upsert(ctx, email, hashedPassword)
	}

	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE accounts
		 SET hashed_password = $2
		 WHERE email = $1`,
		email, hashedPassword)
	if err != nil {
		return wrapPgError(err, "update account")
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) upsert(ctx context.Context, email, hashedPassword string) error {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (email, hashed_password)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET hashed_password = EXCLUDED.hashed_password`,
		email, hashedPassword)
	if err != nil {
		return wrapPgError(err, "upsert account")
	}
	return nil
}

func wrapPgError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return errors.Wrap(err, msg)
}
