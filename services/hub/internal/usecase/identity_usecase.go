package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"veltta-hub/pkg/jwt"
	"veltta-hub/pkg/logger"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

// SessionListener receives the current session, or nil after sign-out.
type SessionListener func(session *entity.Session)

type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	GetSession(ctx context.Context, token string) (*entity.Session, error)
	SignOut(ctx context.Context, token string) error
	OnSessionChange(fn SessionListener)
	IsAdmin(session *entity.Session) bool
}

type identityProvider struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	denylist   jwt.Denylist
	logger     *logger.Logger

	mu        sync.RWMutex
	listeners []SessionListener
}

func NewIdentityProvider(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	denylist jwt.Denylist,
	logger *logger.Logger,
) IdentityProvider {
	if denylist == nil {
		denylist = jwt.NewMemoryDenylist()
	}
	return &identityProvider{
		userRepo:   userRepo,
		jwtService: jwtService,
		denylist:   denylist,
		logger:     logger,
	}
}

func (p *identityProvider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	user, err := p.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, persistent.ErrNotFound) {
			p.logger.Error("Failed to look up user: %v", err)
		}
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := p.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		p.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session, err := p.sessionFor(token, user)
	if err != nil {
		return nil, err
	}
	p.logger.Info("User %s signed in", user.ID)
	p.emit(session)
	return session, nil
}

func (p *identityProvider) GetSession(ctx context.Context, token string) (*entity.Session, error) {
	claims, err := p.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	revoked, err := p.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		p.logger.Error("Failed to check token revocation: %v", err)
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, ErrSessionInvalid
	}

	user, err := p.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return p.sessionFor(token, user)
}

func (p *identityProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.jwtService.ValidateToken(token)
	if err != nil {
		return ErrSessionInvalid
	}

	if err := p.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		p.logger.Error("Failed to revoke token: %v", err)
		return fmt.Errorf("failed to sign out: %w", err)
	}
	p.logger.Info("User %s signed out", claims.UserID)
	p.emit(nil)
	return nil
}

func (p *identityProvider) OnSessionChange(fn SessionListener) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *identityProvider) IsAdmin(session *entity.Session) bool {
	return session.IsAdmin()
}

func (p *identityProvider) emit(session *entity.Session) {
	p.mu.RLock()
	listeners := append([]SessionListener(nil), p.listeners...)
	p.mu.RUnlock()

	for _, fn := range listeners {
		fn(session)
	}
}

func (p *identityProvider) sessionFor(token string, user *entity.User) (*entity.Session, error) {
	claims, err := p.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}
	user.Password = ""
	return &entity.Session{
		Token:     token,
		TokenID:   claims.ID,
		User:      user,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
