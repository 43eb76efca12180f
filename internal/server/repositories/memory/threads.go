package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type ThreadsRepository struct {
	v view
}

// snapshot copies committed threads matching keep and overlays pending ones.
func (r *ThreadsRepository) snapshot(keep func(models.Thread) bool) []models.Thread {
	s := r.v.s
	merged := make(map[int64]models.Thread)

	s.mu.RLock()
	for id, t := range s.threads {
		if keep(t) {
			merged[id] = t
		}
	}
	s.mu.RUnlock()

	if r.v.tx != nil {
		for id, t := range r.v.tx.threads {
			if keep(t) {
				merged[id] = t
			} else {
				delete(merged, id)
			}
		}
	}

	out := make([]models.Thread, 0, len(merged))
	for _, t := range merged {
		out = append(out, t)
	}
	return out
}

func (r *ThreadsRepository) put(t models.Thread) {
	if r.v.tx != nil {
		r.v.tx.threads[t.ID] = t
		return
	}
	s := r.v.s
	s.mu.Lock()
	s.threads[t.ID] = t
	s.mu.Unlock()
}

func (r *ThreadsRepository) Create(_ context.Context, userID int64, now time.Time) (*models.Thread, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	t := models.Thread{
		ID:             r.v.s.threadSeq.Add(1),
		UserID:         userID,
		LastActivityAt: now,
		CreatedAt:      now,
	}
	r.put(t)
	return &t, nil
}

func (r *ThreadsRepository) FindActive(_ context.Context, userID int64, cutoff time.Time) (*models.Thread, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	candidates := r.snapshot(func(t models.Thread) bool {
		return t.UserID == userID && !t.LastActivityAt.Before(cutoff)
	})
	if len(candidates) == 0 {
		return nil, common.ErrorNotFound
	}

	sortByActivity(candidates)
	best := candidates[0]
	return &best, nil
}

func (r *ThreadsRepository) GetByID(_ context.Context, id int64) (*models.Thread, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	if r.v.tx != nil {
		if t, ok := r.v.tx.threads[id]; ok {
			return &t, nil
		}
	}

	s := r.v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *ThreadsRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.LastActivityAt = at
	r.put(*t)
	return nil
}

func (r *ThreadsRepository) List(_ context.Context, userIDs []int64, limit, offset int) ([]models.Thread, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}

	wanted := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	all := r.snapshot(func(t models.Thread) bool {
		if len(wanted) == 0 {
			return true
		}
		_, ok := wanted[t.UserID]
		return ok
	})
	sortByActivity(all)

	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// sortByActivity orders threads by LastActivityAt descending, ID ascending.
func sortByActivity(ts []models.Thread) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].LastActivityAt.Equal(ts[j].LastActivityAt) {
			return ts[i].LastActivityAt.After(ts[j].LastActivityAt)
		}
		return ts[i].ID < ts[j].ID
	})
}
