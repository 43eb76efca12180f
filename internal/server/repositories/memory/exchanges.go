package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type ExchangesRepository struct {
	v view
}

func (r *ExchangesRepository) Create(_ context.Context, e *models.Exchange) (*models.Exchange, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	s := r.v.s
	e.ID = s.exchangeSeq.Add(1)

	if r.v.tx != nil {
		r.v.tx.exchanges[e.ID] = *e
		return e, nil
	}

	s.mu.Lock()
	s.exchanges[e.ID] = *e
	s.mu.Unlock()
	return e, nil
}

func (r *ExchangesRepository) collect(threadIDs map[int64]struct{}) []models.Exchange {
	var out []models.Exchange

	s := r.v.s
	s.mu.RLock()
	for _, e := range s.exchanges {
		if _, ok := threadIDs[e.ThreadID]; ok {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	if r.v.tx != nil {
		for _, e := range r.v.tx.exchanges {
			if _, ok := threadIDs[e.ThreadID]; ok {
				out = append(out, e)
			}
		}
	}
	return out
}

func (r *ExchangesRepository) ListByThread(_ context.Context, threadID int64) ([]models.Exchange, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	out := r.collect(map[int64]struct{}{threadID: {}})
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

func (r *ExchangesRepository) ListByThreads(_ context.Context, threadIDs []int64, desc bool) (map[int64][]models.Exchange, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	result := make(map[int64][]models.Exchange, len(threadIDs))
	if len(threadIDs) == 0 {
		return result, nil
	}

	set := make(map[int64]struct{}, len(threadIDs))
	for _, id := range threadIDs {
		set[id] = struct{}{}
	}

	out := r.collect(set)
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[j].Less(out[i])
		}
		return out[i].Less(out[j])
	})
	for _, e := range out {
		result[e.ThreadID] = append(result[e.ThreadID], e)
	}
	return result, nil
}
