package services

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
)

// Exchange order within listed threads.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Transport defaults for listing parameters.
const (
	DefaultSort  = SortDesc
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListThreadsRequest selects a page of threads. An empty UserIDs means
// "whatever the principal may see by default".
type ListThreadsRequest struct {
	UserIDs []int64
	Sort    string
	Page    int
	Limit   int
}

// ThreadService lists threads with their exchanges. It takes no locks.
type ThreadService struct {
	repomanager repomanager.Manager
	logger      logging.Logger
	maxPageSize int
}

func NewThreadService(m repomanager.Manager, cfg *config.Config, logger logging.Logger) *ThreadService {
	return &ThreadService{
		repomanager: m,
		logger:      logger.With("module", "threads"),
		maxPageSize: cfg.MaxPageSize,
	}
}

// ListThreads returns one page of threads ordered by last activity (newest
// first, lower id first on ties), each carrying its exchanges ordered by
// creation time in the requested direction. Pages past the end are empty.
//
// A member may list only their own threads: an explicit filter must be
// exactly their own id, otherwise common.ErrorForbidden. An admin lists all
// threads, or the threads of the filtered users.
func (s *ThreadService) ListThreads(ctx context.Context, p models.Principal, req ListThreadsRequest) ([]models.Thread, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	userIDs, err := authorizeFilter(p, dedupe(req.UserIDs))
	if err != nil {
		return nil, err
	}

	if req.Page-1 > math.MaxInt32/req.Limit {
		return []models.Thread{}, nil
	}
	offset := (req.Page - 1) * req.Limit

	repos := s.repomanager.Repos()

	threads, err := repos.Threads.List(ctx, userIDs, req.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing threads: %w", err)
	}
	if len(threads) == 0 {
		return []models.Thread{}, nil
	}

	ids := make([]int64, len(threads))
	for i, t := range threads {
		ids[i] = t.ID
	}

	grouped, err := repos.Exchanges.ListByThreads(ctx, ids, req.Sort == SortDesc)
	if err != nil {
		return nil, fmt.Errorf("error listing exchanges: %w", err)
	}

	for i := range threads {
		threads[i].Exchanges = grouped[threads[i].ID]
		if threads[i].Exchanges == nil {
			threads[i].Exchanges = []models.Exchange{}
		}
	}

	s.logger.Debug(ctx, "threads listed", "principal", p.UserID, "count", len(threads), "page", req.Page)
	return threads, nil
}

func (s *ThreadService) validate(req ListThreadsRequest) error {
	if req.Sort != SortAsc && req.Sort != SortDesc {
		return fmt.Errorf("%w: sort must be %q or %q", common.ErrorValidation, SortAsc, SortDesc)
	}
	if req.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1", common.ErrorValidation)
	}
	if req.Limit < 1 {
		return fmt.Errorf("%w: limit must be at least 1", common.ErrorValidation)
	}
	if s.maxPageSize > 0 && req.Limit > s.maxPageSize {
		return fmt.Errorf("%w: limit must not exceed %d", common.ErrorValidation, s.maxPageSize)
	}
	return nil
}

// authorizeFilter returns the user ids to list for p, nil meaning every user.
func authorizeFilter(p models.Principal, filter []int64) ([]int64, error) {
	if p.IsAdmin() {
		return filter, nil
	}
	if len(filter) == 0 {
		return []int64{p.UserID}, nil
	}
	if len(filter) != 1 || filter[0] != p.UserID {
		return nil, fmt.Errorf("%w: members may only list their own threads", common.ErrorForbidden)
	}
	return filter, nil
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
