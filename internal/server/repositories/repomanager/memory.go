package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/repositories/memory"
)

// MemoryManager vends repositories over an in-process memory.Store.
type MemoryManager struct {
	store *memory.Store
}

// NewMemoryManager wraps store, creating an empty one when store is nil.
func NewMemoryManager(store *memory.Store) *MemoryManager {
	if store == nil {
		store = memory.NewStore()
	}
	return &MemoryManager{store: store}
}

func (m *MemoryManager) Store() *memory.Store {
	return m.store
}

func (m *MemoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *MemoryManager) Repos() Repositories {
	s := m.store
	return Repositories{
		Users:         s.Users(),
		Threads:       s.Threads(),
		Exchanges:     s.Exchanges(),
		RefreshTokens: s.RefreshTokens(),
	}
}

// WithTx mirrors dbx.WithTx: commit on success, roll back on error or
// panic, rethrowing the panic.
func (m *MemoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) (err error) {
	tx := m.store.Begin()

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, Repositories{
		Users:         tx.Users(),
		Threads:       tx.Threads(),
		Exchanges:     tx.Exchanges(),
		RefreshTokens: tx.RefreshTokens(),
	})
	return err
}

func (m *MemoryManager) Close() error {
	return nil
}
