// Package memory is an in-process implementation of the server repositories.
// It supports transactions with private pending writes and exclusive
// per-user locks held until the transaction ends, so it behaves like the
// PostgreSQL store for the session protocol without a database.
package memory

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

var errTxDone = errors.New("memory: transaction has already been committed or rolled back")

type Store struct {
	mu        sync.RWMutex
	users     map[int64]models.User
	threads   map[int64]models.Thread
	exchanges map[int64]models.Exchange
	tokens    map[string]models.RefreshToken

	userSeq     atomic.Int64
	threadSeq   atomic.Int64
	exchangeSeq atomic.Int64

	locks *keyedMutex

	// Now stamps user and token creation. Defaults to time.Now.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:     make(map[int64]models.User),
		threads:   make(map[int64]models.Thread),
		exchanges: make(map[int64]models.Exchange),
		tokens:    make(map[string]models.RefreshToken),
		locks:     newKeyedMutex(),
		Now:       time.Now,
	}
}

// Tx is a unit of work over a Store. Writes stay private to the Tx until
// Commit; locks taken through it are released by Commit or Rollback.
// A Tx must not be used from several goroutines at once.
type Tx struct {
	s             *Store
	users         map[int64]models.User
	threads       map[int64]models.Thread
	exchanges     map[int64]models.Exchange
	tokens        map[string]models.RefreshToken
	deletedTokens map[string]struct{}
	held          map[int64]struct{}
	done          bool
}

func (s *Store) Begin() *Tx {
	return &Tx{
		s:             s,
		users:         make(map[int64]models.User),
		threads:       make(map[int64]models.Thread),
		exchanges:     make(map[int64]models.Exchange),
		tokens:        make(map[string]models.RefreshToken),
		deletedTokens: make(map[string]struct{}),
		held:          make(map[int64]struct{}),
	}
}

// Commit publishes pending writes atomically and releases held locks.
// A user whose email was taken by a concurrent commit fails the whole
// transaction with common.ErrorAlreadyExists.
func (t *Tx) Commit() error {
	if t.done {
		return errTxDone
	}
	defer t.finish()

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range t.users {
		if id, ok := s.emailOwnerLocked(u.Email); ok && id != u.ID {
			return common.ErrorAlreadyExists
		}
	}

	for id, u := range t.users {
		s.users[id] = u
	}
	for id, th := range t.threads {
		s.threads[id] = th
	}
	for id, e := range t.exchanges {
		s.exchanges[id] = e
	}
	for tok := range t.deletedTokens {
		delete(s.tokens, tok)
	}
	for tok, rt := range t.tokens {
		s.tokens[tok] = rt
	}

	return nil
}

// Rollback discards pending writes and releases held locks. It is a no-op
// after Commit.
func (t *Tx) Rollback() {
	if t.done {
		return
	}
	t.finish()
}

func (t *Tx) finish() {
	t.done = true
	for id := range t.held {
		t.s.locks.unlock(id)
	}
	t.held = nil
}

func (s *Store) emailOwnerLocked(email string) (int64, bool) {
	for id, u := range s.users {
		if u.Email == email {
			return id, true
		}
	}
	return 0, false
}

// view is what a repository reads and writes through: the committed state,
// overlaid with a transaction's pending writes when tx is set.
type view struct {
	s  *Store
	tx *Tx
}

func (v view) Users() *UsersRepository { return &UsersRepository{v} }

func (v view) Threads() *ThreadsRepository { return &ThreadsRepository{v} }

func (v view) Exchanges() *ExchangesRepository { return &ExchangesRepository{v} }

func (v view) RefreshTokens() *RefreshTokensRepository { return &RefreshTokensRepository{v} }

// Users returns a repository that writes through immediately.
func (s *Store) Users() *UsersRepository { return view{s: s}.Users() }

func (s *Store) Threads() *ThreadsRepository { return view{s: s}.Threads() }

func (s *Store) Exchanges() *ExchangesRepository { return view{s: s}.Exchanges() }

func (s *Store) RefreshTokens() *RefreshTokensRepository { return view{s: s}.RefreshTokens() }

// Users returns a repository bound to the transaction.
func (t *Tx) Users() *UsersRepository { return view{s: t.s, tx: t}.Users() }

func (t *Tx) Threads() *ThreadsRepository { return view{s: t.s, tx: t}.Threads() }

func (t *Tx) Exchanges() *ExchangesRepository { return view{s: t.s, tx: t}.Exchanges() }

func (t *Tx) RefreshTokens() *RefreshTokensRepository { return view{s: t.s, tx: t}.RefreshTokens() }

func (v view) check() error {
	if v.tx != nil && v.tx.done {
		return errTxDone
	}
	return nil
}
