package threads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, now time.Time) (*models.Thread, error) {
	query :=
		`INSERT INTO threads (user_id, last_activity_at, created_at)
		 VALUES ($1, $2, $2)
		 RETURNING id
		 `

	t := &models.Thread{UserID: userID, LastActivityAt: now, CreatedAt: now}
	if err := r.db.QueryRowContext(ctx, query, userID, now).Scan(&t.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Thread, error) {
	t := &models.Thread{}
	if err := row.Scan(&t.ID, &t.UserID, &t.LastActivityAt, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, userID int64, cutoff time.Time) (*models.Thread, error) {
	query :=
		`SELECT id, user_id, last_activity_at, created_at FROM threads
		 WHERE user_id = $1 AND last_activity_at >= $2
		 ORDER BY last_activity_at DESC, id ASC
		 LIMIT 1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, cutoff))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Thread, error) {
	query :=
		`SELECT id, user_id, last_activity_at, created_at FROM threads
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	query :=
		`UPDATE threads SET last_activity_at = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userIDs []int64, limit, offset int) ([]models.Thread, error) {
	args := dbx.Int64Args(userIDs)

	where := ""
	if len(userIDs) > 0 {
		where = "WHERE user_id IN (" + dbx.Placeholders(1, len(userIDs)) + ")"
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, last_activity_at, created_at FROM threads
		 %s
		 ORDER BY last_activity_at DESC, id ASC
		 LIMIT $%d OFFSET $%d
		 `, where, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Thread
	for rows.Next() {
		var t models.Thread
		if err := rows.Scan(&t.ID, &t.UserID, &t.LastActivityAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
