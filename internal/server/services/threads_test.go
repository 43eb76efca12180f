package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type threadFixture struct {
	svc          *ThreadService
	alice, bob   *models.User
	admin        *models.User
	aliceThreads []int64 // newest activity first
	bobThreads   []int64
}

// newThreadFixture gives alice three threads and bob two, with activity
// interleaved so that the global order is a2 b1 a1 b0 a0.
func newThreadFixture(t *testing.T) *threadFixture {
	t.Helper()
	ctx := context.Background()
	m := repomanager.NewMemoryManager(nil)
	f := &threadFixture{
		svc:   NewThreadService(m, testConfig(), logging.Nop{}),
		alice: seedUser(t, m, "alice@example.com", common.RoleMember),
		bob:   seedUser(t, m, "bob@example.com", common.RoleMember),
		admin: seedUser(t, m, "admin@example.com", common.RoleAdmin),
	}

	r := m.Repos()
	mk := func(u *models.User, at time.Time, questions ...string) int64 {
		th, err := r.Threads.Create(ctx, u.ID, at)
		require.NoError(t, err)
		for i, q := range questions {
			_, err := r.Exchanges.Create(ctx, &models.Exchange{
				ThreadID: th.ID, UserID: u.ID, Question: q, Answer: "a-" + q,
				CreatedAt: at.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}
		return th.ID
	}

	a0 := mk(f.alice, t0, "a0-1", "a0-2")
	b0 := mk(f.bob, t0.Add(time.Hour), "b0-1")
	a1 := mk(f.alice, t0.Add(2*time.Hour))
	b1 := mk(f.bob, t0.Add(3*time.Hour), "b1-1")
	a2 := mk(f.alice, t0.Add(4*time.Hour), "a2-1", "a2-2", "a2-3")

	f.aliceThreads = []int64{a2, a1, a0}
	f.bobThreads = []int64{b1, b0}
	return f
}

func ids(ts []models.Thread) []int64 {
	out := make([]int64, len(ts))
	for i, th := range ts {
		out[i] = th.ID
	}
	return out
}

func page(p, limit int) ListThreadsRequest {
	return ListThreadsRequest{Sort: SortDesc, Page: p, Limit: limit}
}

func TestListThreads_MemberSeesOwn(t *testing.T) {
	f := newThreadFixture(t)
	me := models.Principal{UserID: f.alice.ID, Role: common.RoleMember}

	got, err := f.svc.ListThreads(context.Background(), me, page(1, 10))
	require.NoError(t, err)
	assert.Equal(t, f.aliceThreads, ids(got))

	req := page(1, 10)
	req.UserIDs = []int64{f.alice.ID, f.alice.ID}
	got, err = f.svc.ListThreads(context.Background(), me, req)
	require.NoError(t, err, "duplicates collapse to the member's own id")
	assert.Equal(t, f.aliceThreads, ids(got))
}

func TestListThreads_MemberForbidden(t *testing.T) {
	f := newThreadFixture(t)
	me := models.Principal{UserID: f.alice.ID, Role: common.RoleMember}

	for _, filter := range [][]int64{
		{f.bob.ID},
		{f.alice.ID, f.bob.ID},
		{f.admin.ID},
	} {
		req := page(1, 10)
		req.UserIDs = filter
		_, err := f.svc.ListThreads(context.Background(), me, req)
		assert.ErrorIs(t, err, common.ErrorForbidden, "filter %v", filter)
	}
}

func TestListThreads_Admin(t *testing.T) {
	f := newThreadFixture(t)
	admin := models.Principal{UserID: f.admin.ID, Role: common.RoleAdmin}
	ctx := context.Background()

	got, err := f.svc.ListThreads(ctx, admin, page(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []int64{
		f.aliceThreads[0], f.bobThreads[0], f.aliceThreads[1], f.bobThreads[1], f.aliceThreads[2],
	}, ids(got))

	req := page(1, 10)
	req.UserIDs = []int64{f.bob.ID, f.bob.ID}
	got, err = f.svc.ListThreads(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, f.bobThreads, ids(got))

	req.UserIDs = []int64{f.admin.ID}
	got, err = f.svc.ListThreads(ctx, admin, req)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListThreads_Pagination(t *testing.T) {
	f := newThreadFixture(t)
	admin := models.Principal{UserID: f.admin.ID, Role: common.RoleAdmin}
	ctx := context.Background()

	all, err := f.svc.ListThreads(ctx, admin, page(1, 5))
	require.NoError(t, err)

	var walked []int64
	for p := 1; p <= 3; p++ {
		got, err := f.svc.ListThreads(ctx, admin, page(p, 2))
		require.NoError(t, err)
		walked = append(walked, ids(got)...)
	}
	assert.Equal(t, ids(all), walked, "pages are disjoint and contiguous")

	got, err := f.svc.ListThreads(ctx, admin, page(4, 2))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = f.svc.ListThreads(ctx, admin, page(1<<30, 100))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListThreads_ExchangeOrder(t *testing.T) {
	f := newThreadFixture(t)
	me := models.Principal{UserID: f.alice.ID, Role: common.RoleMember}
	ctx := context.Background()

	questions := func(ex []models.Exchange) []string {
		out := make([]string, len(ex))
		for i, e := range ex {
			out[i] = e.Question
		}
		return out
	}

	desc, err := f.svc.ListThreads(ctx, me, page(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"a2-3", "a2-2", "a2-1"}, questions(desc[0].Exchanges))
	assert.NotNil(t, desc[1].Exchanges)
	assert.Empty(t, desc[1].Exchanges)

	req := page(1, 10)
	req.Sort = SortAsc
	asc, err := f.svc.ListThreads(ctx, me, req)
	require.NoError(t, err)
	assert.Equal(t, ids(desc), ids(asc), "sort applies to exchanges only")
	assert.Equal(t, []string{"a2-1", "a2-2", "a2-3"}, questions(asc[0].Exchanges))
	assert.Equal(t, []string{"a0-1", "a0-2"}, questions(asc[2].Exchanges))
}

func TestListThreads_Validation(t *testing.T) {
	f := newThreadFixture(t)
	me := models.Principal{UserID: f.alice.ID, Role: common.RoleMember}

	tests := []struct {
		name string
		req  ListThreadsRequest
	}{
		{"empty sort", ListThreadsRequest{Page: 1, Limit: 10}},
		{"unknown sort", ListThreadsRequest{Sort: "DESC", Page: 1, Limit: 10}},
		{"zero page", ListThreadsRequest{Sort: SortAsc, Page: 0, Limit: 10}},
		{"negative page", ListThreadsRequest{Sort: SortAsc, Page: -1, Limit: 10}},
		{"zero limit", ListThreadsRequest{Sort: SortAsc, Page: 1, Limit: 0}},
		{"limit over max", ListThreadsRequest{Sort: SortAsc, Page: 1, Limit: 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ListThreads(context.Background(), me, tt.req)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestAuthorizeFilter(t *testing.T) {
	member := models.Principal{UserID: 7, Role: common.RoleMember}
	admin := models.Principal{UserID: 1, Role: common.RoleAdmin}

	got, err := authorizeFilter(member, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, got)

	got, err = authorizeFilter(admin, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = authorizeFilter(admin, []int64{3, 7})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, got)

	_, err = authorizeFilter(member, []int64{7, 8})
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestDedupe(t *testing.T) {
	assert.Nil(t, dedupe(nil))
	assert.Equal(t, []int64{3, 1, 2}, dedupe([]int64{3, 1, 3, 2, 1}))
}
