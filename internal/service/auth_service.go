package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"peopledesk/internal/auth"
	"peopledesk/internal/entity"
	"peopledesk/internal/model"
)

var (
	// ErrMissingCredentials marks a login request without username or password.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrInvalidCredentials is returned for unknown usernames, wrong passwords
	// and non-active accounts alike, so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	repo   model.Repository
	tokens *auth.Manager
}

// NewAuthService creates the authentication service.
func NewAuthService(repo model.Repository, tokens *auth.Manager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Authenticate checks the credentials against the store and, on success,
// records the login time and issues a signed session token. last_login is only
// written after the credential check passed.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.DbUser, string, time.Time, error) {
	if s == nil || s.repo == nil || s.tokens == nil {
		return nil, "", time.Time{}, errors.New("auth service not initialised")
	}

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, "", time.Time{}, ErrMissingCredentials
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("username", username).Warn("login attempt for unknown username")
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, fmt.Errorf("load user: %w", err)
	}

	if !user.IsActive() {
		logrus.WithField("username", username).Warn("login attempt for non-active account")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		logrus.WithField("username", username).Warn("password verification failed")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", time.Time{}, fmt.Errorf("record login time: %w", err)
	}
	user.LastLogin = &now

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}

	return user, token, expiresAt, nil
}

// VerifyToken validates a bearer token and returns its claims. Purely
// stateless, no store access.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	if s == nil || s.tokens == nil {
		return nil, errors.New("auth service not initialised")
	}
	return s.tokens.ParseToken(token)
}
