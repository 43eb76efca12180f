// Package users declares the user repository contract and its PostgreSQL
// implementation.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A duplicate email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// LockByID takes the exclusive per-user lock for the rest of the current
	// transaction, waiting at most timeout (zero waits indefinitely).
	// It returns common.ErrBusy when the wait runs out and
	// common.ErrorNotFound when the user does not exist.
	LockByID(ctx context.Context, id int64, timeout time.Duration) error
}
