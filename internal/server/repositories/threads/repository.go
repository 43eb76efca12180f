// Package threads declares the thread repository contract and its
// PostgreSQL implementation.
package threads

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

// Repository defines thread persistence. Threads are never deleted; only
// LastActivityAt changes after creation.
type Repository interface {
	// Create inserts a thread whose LastActivityAt and CreatedAt are both now.
	Create(ctx context.Context, userID int64, now time.Time) (*models.Thread, error)

	// FindActive returns the user's thread with the greatest LastActivityAt
	// not before cutoff, smallest ID on ties, or common.ErrorNotFound.
	FindActive(ctx context.Context, userID int64, cutoff time.Time) (*models.Thread, error)

	GetByID(ctx context.Context, id int64) (*models.Thread, error)

	// Touch sets LastActivityAt of thread id to at.
	Touch(ctx context.Context, id int64, at time.Time) error

	// List returns threads of the given users (all users when userIDs is
	// empty) ordered by LastActivityAt DESC, ID ASC, skipping offset and
	// returning at most limit threads.
	List(ctx context.Context, userIDs []int64, limit, offset int) ([]models.Thread, error)
}
