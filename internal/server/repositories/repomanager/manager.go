// Package repomanager vends repository sets bound either to a plain
// connection or to a transaction, over PostgreSQL or the in-memory store.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/repositories/exchanges"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/threads"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
)

// Repositories is a set of repositories sharing one connection or transaction.
type Repositories struct {
	Users         users.Repository
	Threads       threads.Repository
	Exchanges     exchanges.Repository
	RefreshTokens refreshtokens.Repository
}

type Manager interface {
	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context) error

	// Repos returns repositories working outside any transaction.
	Repos() Repositories

	// WithTx runs fn inside a transaction and commits when fn returns nil.
	// Any error or panic rolls back every write fn made and releases locks
	// taken through the transactional repositories.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	Close() error
}
