package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/llm"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.LockTimeout = 2 * time.Second
	cfg.GenerationTimeout = 2 * time.Second
	return cfg
}

func seedUser(t *testing.T, m repomanager.Manager, email, role string) *models.User {
	t.Helper()
	u, err := m.Repos().Users.Create(context.Background(), &models.User{Email: email, Role: role, PasswordHash: []byte("x")})
	require.NoError(t, err)
	return u
}

// fakeClock is a settable clock shared by concurrent submissions.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock { return &fakeClock{now: at} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	c.now = at
	c.mu.Unlock()
}

// recordingGenerator answers "answer to <question>" and keeps every
// conversation it was given.
type recordingGenerator struct {
	mu    sync.Mutex
	calls [][]llm.Message
}

func (g *recordingGenerator) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, messages)
	g.mu.Unlock()
	return "answer to " + llm.LastUserMessage(messages), nil
}

func (g *recordingGenerator) last() []llm.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return nil
	}
	return g.calls[len(g.calls)-1]
}

func newChatService(t *testing.T, gen llm.Generator) (*ChatService, *repomanager.MemoryManager, *fakeClock) {
	t.Helper()
	m := repomanager.NewMemoryManager(nil)
	clock := newFakeClock(t0)
	s := NewChatService(m, gen, testConfig(), logging.Nop{}).WithClock(clock.Now)
	return s, m, clock
}
