package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/access-control-api/internal/auth"
	"github.com/spec-kit/access-control-api/internal/config"
	"github.com/spec-kit/access-control-api/internal/domain"
	"github.com/spec-kit/access-control-api/internal/events"
	"github.com/spec-kit/access-control-api/internal/repository"
	apperrors "github.com/spec-kit/access-control-api/pkg/util"
)

// AuthService coordinates registration, login and account lifecycle.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service. It fails when the configured signing
// algorithm is not a supported symmetric scheme.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	tokenMgr, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.Auth.AccessTokenTTLMinutes)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokenMgr,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// Register creates a new account. Username and password rules are checked
// once here; the stored username is the normalized form.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	normalized, err := domain.NewUsername(username)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if len(password) < domain.MinPasswordLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", domain.MinPasswordLen), nil)
	}

	parsedRole := domain.RoleUser
	if role != "" {
		parsedRole, err = domain.ParseRole(role)
		if err != nil {
			return nil, apperrors.NewValidationError("role must be one of: user, admin", nil)
		}
	}

	if _, err := s.users.GetByUsername(ctx, normalized); err == nil {
		return nil, apperrors.NewDomainError("USERNAME_TAKEN", "username already registered", http.StatusBadRequest, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     normalized,
		PasswordHash: hash,
		Role:         parsedRole,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.Username, map[string]string{
		"role": string(user.Role),
	}))
	return user, nil
}

// Login authenticates a user and issues a bearer token. Unknown username
// and wrong password collapse to the same unauthorized failure so callers
// cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	normalized := domain.NormalizeUsername(username)

	user, err := s.users.GetByUsername(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publish(ctx, events.NewEvent(events.EventLoginFailed, normalized, nil))
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		s.publish(ctx, events.NewEvent(events.EventLoginFailed, normalized, nil))
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("account is deactivated")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.Username, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.NewEvent(events.EventLoginSucceeded, user.Username, map[string]string{
		"role": string(user.Role),
	}))
	return user, token, expiresAt, nil
}

// SetActive toggles the account state for the given user ID.
func (s *AuthService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	if user.IsActive == active {
		return user, nil
	}

	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	eventType := events.EventUserDeactivated
	if active {
		eventType = events.EventUserActivated
	}
	s.publish(ctx, events.NewEvent(eventType, user.Username, nil))
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
