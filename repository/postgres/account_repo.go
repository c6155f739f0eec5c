package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/repository"
)

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository instantiates a Postgres-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool) repository.AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, username, email, role, tier, is_active, created_at, last_login_at, credits_used, credits_limit, credential_hash`

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
	SELECT ` + accountColumns + `
	FROM accounts
	WHERE id = $1
	`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) FindByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	const query = `
	SELECT ` + accountColumns + `
	FROM accounts
	WHERE lower(username) = lower($1) OR lower(email) = lower($1)
	LIMIT 1
	`
	return scanAccount(r.pool.QueryRow(ctx, query, identifier))
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
	SELECT ` + accountColumns + `
	FROM accounts
	ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account == nil || account.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO accounts (id, username, email, role, tier, is_active, created_at, last_login_at, credits_used, credits_limit, credential_hash)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.Role,
		account.Tier,
		account.Active,
		account.CreatedAt,
		nullTime(account.LastLoginAt),
		account.CreditsUsed,
		account.CreditsLimit,
		account.CredentialHash,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAccount
	}
	return err
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	if account == nil || account.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE accounts
	SET username = $2,
		email = $3,
		role = $4,
		tier = $5,
		is_active = $6,
		last_login_at = $7,
		credits_used = $8,
		credits_limit = $9,
		credential_hash = $10
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.Role,
		account.Tier,
		account.Active,
		nullTime(account.LastLoginAt),
		account.CreditsUsed,
		account.CreditsLimit,
		account.CredentialHash,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAccount
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM accounts WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

func scanAccount(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Account, error) {
	var account domain.Account
	var lastLogin *time.Time

	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Role,
		&account.Tier,
		&account.Active,
		&account.CreatedAt,
		&lastLogin,
		&account.CreditsUsed,
		&account.CreditsLimit,
		&account.CredentialHash,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if lastLogin != nil {
		account.LastLoginAt = *lastLogin
	}
	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
