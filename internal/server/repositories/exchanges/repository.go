// Package exchanges declares the exchange repository contract and its
// PostgreSQL implementation. Exchanges are immutable once created.
package exchanges

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	// Create inserts e and fills its ID. CreatedAt is taken from e.
	Create(ctx context.Context, e *models.Exchange) (*models.Exchange, error)

	// ListByThread returns the thread's exchanges ordered by CreatedAt, ID ascending.
	ListByThread(ctx context.Context, threadID int64) ([]models.Exchange, error)

	// ListByThreads returns the exchanges of all given threads grouped by
	// thread id, each group ordered by CreatedAt then ID, descending when desc is set.
	ListByThreads(ctx context.Context, threadIDs []int64, desc bool) (map[int64][]models.Exchange, error)
}
