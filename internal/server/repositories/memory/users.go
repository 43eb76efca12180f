package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type UsersRepository struct {
	v view
}

func (r *UsersRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	s := r.v.s

	if r.v.tx == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.emailOwnerLocked(user.Email); ok {
			return nil, common.ErrorAlreadyExists
		}
		user.ID = s.userSeq.Add(1)
		user.CreatedAt = s.Now()
		s.users[user.ID] = *user
		return user, nil
	}

	if _, err := r.GetByEmail(context.Background(), user.Email); err == nil {
		return nil, common.ErrorAlreadyExists
	}
	user.ID = s.userSeq.Add(1)
	user.CreatedAt = s.Now()
	r.v.tx.users[user.ID] = *user
	return user, nil
}

func (r *UsersRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	if r.v.tx != nil {
		if u, ok := r.v.tx.users[id]; ok {
			return &u, nil
		}
	}

	s := r.v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UsersRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	if r.v.tx != nil {
		for _, u := range r.v.tx.users {
			if u.Email == email {
				return &u, nil
			}
		}
	}

	s := r.v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailOwnerLocked(email)
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := s.users[id]
	return &u, nil
}

// LockByID takes the user's lock for the rest of the transaction. Outside
// a transaction the lock is released straight away, as a row lock taken in
// autocommit mode would be. Locking the same user twice in one transaction
// is a no-op.
func (r *UsersRepository) LockByID(ctx context.Context, id int64, timeout time.Duration) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	locks := r.v.s.locks
	tx := r.v.tx

	if tx == nil {
		if err := locks.lock(ctx, id, timeout); err != nil {
			return err
		}
		locks.unlock(id)
		return nil
	}

	if _, ok := tx.held[id]; ok {
		return nil
	}
	if err := locks.lock(ctx, id, timeout); err != nil {
		return err
	}
	tx.held[id] = struct{}{}
	return nil
}
