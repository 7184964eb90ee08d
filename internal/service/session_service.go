package service

import (
	"context"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/repository"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// SessionService keeps the CLI user logged in between invocations.
type SessionService struct {
	auth     *AuthService
	sessions repository.SessionRepository
}

// NewSessionService constructs the service.
func NewSessionService(authService *AuthService, sessions repository.SessionRepository) *SessionService {
	return &SessionService{auth: authService, sessions: sessions}
}

// Login authenticates and remembers the issued token.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, token, exp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	session := domain.Session{
		Token:     token,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: exp,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &session, nil
}

// Current returns the remembered session after re-validating its token.
// An expired or tampered session is cleared.
func (s *SessionService) Current(ctx context.Context) (*domain.Session, error) {
	session, ok, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, apperrors.NewUnauthorized("not logged in")
	}
	if session.Expired(s.auth.clock.Now()) {
		_ = s.sessions.Clear(ctx)
		return nil, apperrors.NewUnauthorized("session expired, log in again")
	}
	claims, err := s.auth.TokenManager().ParseToken(session.Token)
	if err != nil || domain.NormalizeEmail(claims.Email) != domain.NormalizeEmail(session.Email) {
		_ = s.sessions.Clear(ctx)
		return nil, apperrors.NewUnauthorized("session expired, log in again")
	}
	// the signed claims are authoritative; a stored role that disagrees was edited
	role, err := domain.ParseUserRole(string(claims.Role))
	if err != nil || role != session.Role {
		_ = s.sessions.Clear(ctx)
		return nil, apperrors.NewUnauthorized("session does not match its token, log in again")
	}
	session.Role = role
	return session, nil
}

// Logout forgets the remembered session.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
