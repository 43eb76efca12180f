package exchanges

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Exchange) (*models.Exchange, error) {
	query :=
		`INSERT INTO exchanges (thread_id, user_id, question, answer, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.ThreadID, e.UserID, e.Question, e.Answer, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func scanAll(rows *sql.Rows) ([]models.Exchange, error) {
	defer rows.Close()

	var result []models.Exchange
	for rows.Next() {
		var e models.Exchange
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.UserID, &e.Question, &e.Answer, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListByThread(ctx context.Context, threadID int64) ([]models.Exchange, error) {
	query :=
		`SELECT id, thread_id, user_id, question, answer, created_at FROM exchanges
		 WHERE thread_id = $1
		 ORDER BY created_at ASC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanAll(rows)
}

func (r *PostgresRepository) ListByThreads(ctx context.Context, threadIDs []int64, desc bool) (map[int64][]models.Exchange, error) {
	result := make(map[int64][]models.Exchange, len(threadIDs))
	if len(threadIDs) == 0 {
		return result, nil
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT id, thread_id, user_id, question, answer, created_at FROM exchanges
		 WHERE thread_id IN (%s)
		 ORDER BY thread_id, created_at %s, id %s
		 `, dbx.Placeholders(1, len(threadIDs)), dir, dir)

	rows, err := r.db.QueryContext(ctx, query, dbx.Int64Args(threadIDs)...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	list, err := scanAll(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		result[e.ThreadID] = append(result[e.ThreadID], e)
	}
	return result, nil
}
