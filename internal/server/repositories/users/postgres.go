package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes mapped to sentinel errors.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, name, password_hash, role)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, email, name, password_hash, role, created_at FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, name, password_hash, role, created_at FROM users
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

// LockByID relies on SELECT ... FOR UPDATE; the row lock is released when
// the surrounding transaction ends. lock_timeout is set transaction-locally
// so it never leaks to other users of the pooled connection.
func (r *PostgresRepository) LockByID(ctx context.Context, id int64, timeout time.Duration) error {
	if timeout > 0 {
		query := `SELECT set_config($1, $2, true)`
		ms := fmt.Sprintf("%dms", lockTimeoutMillis(timeout))
		if _, err := r.db.ExecContext(ctx, query, "lock_timeout", ms); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	query :=
		`SELECT id FROM users
		 WHERE id = $1
		 FOR UPDATE
		 `

	var locked int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&locked)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrorNotFound
		case pgCode(err) == pgLockNotAvailable:
			return fmt.Errorf("%w: user %d is locked", common.ErrBusy, id)
		case errors.Is(err, context.Canceled):
			return ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("%w: %v", common.ErrBusy, err)
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// lockTimeoutMillis rounds up to whole milliseconds. PostgreSQL reads a
// lock_timeout of 0 as "wait forever".
func lockTimeoutMillis(d time.Duration) int64 {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms < 1 {
		ms = 1
	}
	return int64(ms)
}
