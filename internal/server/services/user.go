// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, logout and issuing or
// refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/cryptox"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - Logout: revoke refresh tokens
type UserService struct {
	repomanager                  repomanager.Manager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	lockTimeout                  time.Duration
	adminEmails                  map[string]struct{}
	bcryptCost                   int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.Manager, cfg *config.Config, logger logging.Logger) *UserService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &UserService{
		repomanager:                  m,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		lockTimeout:                  cfg.LockTimeout,
		adminEmails:                  admins,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

// Register creates a user. Emails listed in Config.AdminEmails become
// admins; everyone else is a member. Asking for admin with any other email
// yields common.ErrorForbidden. A taken email yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, name, role string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}

	granted := common.RoleMember
	if s.isAdminEmail(email) {
		granted = common.RoleAdmin
	}
	switch role {
	case "", common.RoleMember:
	case common.RoleAdmin:
		if granted != common.RoleAdmin {
			return nil, fmt.Errorf("%w: admin accounts cannot be self-registered", common.ErrorForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}
	role = granted

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Email: email, Name: strings.TrimSpace(name), PasswordHash: hash, Role: role}
	u, err := s.repomanager.Repos().Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login verifies the password and, on success, returns a new TokenPair.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repos := s.repomanager.Repos()
	user, err := repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, models.Principal{UserID: user.ID, Role: user.Role}, repos.RefreshTokens)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
// Rotation runs under the owner's lock and re-reads the token there, so a
// token is spent by exactly one caller; the rest get ErrorUnauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	digest := cryptox.HashToken(refreshToken)

	token, err := s.repomanager.Repos().RefreshTokens.Find(ctx, digest)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.Users.LockByID(ctx, token.UserID, s.lockTimeout); err != nil {
			return err
		}
		if _, err := r.RefreshTokens.Find(ctx, digest); err != nil {
			return err
		}
		if err := r.RefreshTokens.Delete(ctx, digest); err != nil {
			return err
		}

		user, err := r.Users.GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}

		var genErr error
		pair, genErr = s.generateTokenPair(ctx, models.Principal{UserID: user.ID, Role: user.Role}, r.RefreshTokens)
		return genErr
	})
	switch {
	case err == nil:
		return pair, nil
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrorUnauthorized
	case errors.Is(err, common.ErrBusy), errors.Is(err, context.Canceled):
		return nil, err
	default:
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}
}

// Logout revokes every refresh token of the user. Access tokens already
// issued stay valid until they expire.
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	if err := s.repomanager.Repos().RefreshTokens.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// Profile returns the stored user.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.repomanager.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// --- helpers below ---

func (s *UserService) isAdminEmail(email string) bool {
	_, ok := s.adminEmails[strings.ToLower(email)]
	return ok
}

func (s *UserService) generateAccessToken(p models.Principal) (string, error) {
	return auth.GenerateToken(p, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, p models.Principal, repo refreshtokens.Repository) (*TokenPair, error) {
	access, err := s.generateAccessToken(p)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := repo.Create(ctx, p.UserID, cryptox.HashToken(refresh), s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
