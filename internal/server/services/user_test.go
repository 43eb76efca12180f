package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/cryptox"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*UserService, *repomanager.MemoryManager) {
	t.Helper()
	m := repomanager.NewMemoryManager(nil)
	cfg := testConfig()
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.RefreshTokenValidityDuration = 2 * time.Hour
	cfg.AdminEmails = []string{"Root@Example.com"}
	s := NewUserService(m, cfg, logging.Nop{})
	s.bcryptCost = bcrypt.MinCost
	return s, m
}

func TestRegister(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, " alice@example.com ", "password1", "Alice", "")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, common.RoleMember, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("password1")))

	admin, err := s.Register(ctx, "root@example.com", "password1", "", common.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, common.RoleAdmin, admin.Role)

	_, err = s.Register(ctx, "alice@example.com", "password2", "", "")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newUserService(t)

	tests := []struct {
		name, email, password, role string
	}{
		{"bad email", "not-an-email", "password1", ""},
		{"empty email", "", "password1", ""},
		{"short password", "a@example.com", "short", ""},
		{"unknown role", "a@example.com", "password1", "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.email, tt.password, "", tt.role)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_AdminOnlyForBootstrapEmails(t *testing.T) {
	s, m := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "mallory@example.com", "password1", "", common.RoleAdmin)
	require.ErrorIs(t, err, common.ErrorForbidden)
	_, err = m.Repos().Users.GetByEmail(ctx, "mallory@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound, "refused signup stores nothing")

	u, err := s.Register(ctx, "mallory@example.com", "password1", "", common.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, common.RoleMember, u.Role)

	root, err := s.Register(ctx, "root@example.com", "password1", "", "")
	require.NoError(t, err)
	assert.Equal(t, common.RoleAdmin, root.Role, "configured email is an admin without asking")
}

func TestLogin(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "root@example.com", "password1", "", common.RoleAdmin)
	require.NoError(t, err)

	pair, err := s.Login(ctx, "root@example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)

	p, err := auth.GetPrincipalFromToken(pair.AccessToken, s.jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, common.RoleAdmin, p.Role)

	_, err = s.Login(ctx, "root@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_Rotates(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice@example.com", "password1", "", "")
	require.NoError(t, err)
	first, err := s.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	second, err := s.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = s.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "old refresh token is gone")

	_, err = s.RefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshToken_Expired(t *testing.T) {
	s, m := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice@example.com", "password1", "", "")
	require.NoError(t, err)
	require.NoError(t, m.Repos().RefreshTokens.Create(ctx, u.ID, cryptox.HashToken("stale"), -time.Minute))

	_, err = s.RefreshToken(ctx, "stale")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestLogout_RevokesRefreshTokens(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice@example.com", "password1", "", "")
	require.NoError(t, err)
	a, err := s.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)
	b, err := s.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, u.ID))

	for _, tok := range []string{a.RefreshToken, b.RefreshToken} {
		_, err := s.RefreshToken(ctx, tok)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	}
}

func TestProfile(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice@example.com", "password1", "Alice", "")
	require.NoError(t, err)

	got, err := s.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = s.Profile(ctx, u.ID+100)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

// gatedManager holds every WithTx caller until all of them have arrived, so
// each has already looked its token up outside the transaction.
type gatedManager struct {
	repomanager.Manager
	gate sync.WaitGroup
}

func (g *gatedManager) WithTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repositories) error) error {
	g.gate.Done()
	g.gate.Wait()
	return g.Manager.WithTx(ctx, fn)
}

func TestRefreshToken_ConcurrentRotationSpendsTokenOnce(t *testing.T) {
	const callers = 5
	ctx := context.Background()

	plain, m := newUserService(t)
	_, err := plain.Register(ctx, "alice@example.com", "password1", "", "")
	require.NoError(t, err)
	pair, err := plain.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	gm := &gatedManager{Manager: m}
	gm.gate.Add(callers)
	s := NewUserService(gm, testConfig(), logging.Nop{})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []*TokenPair
		refused   int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.RefreshToken(ctx, pair.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded = append(succeeded, got)
			case errors.Is(err, common.ErrorUnauthorized):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, succeeded, 1)
	assert.Equal(t, callers-1, refused)

	_, err = plain.RefreshToken(ctx, succeeded[0].RefreshToken)
	assert.NoError(t, err, "the one minted token works")
}
