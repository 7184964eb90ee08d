package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/auth"
	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/repository"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService is the user directory: registration, login, and password changes.
type AuthService struct {
	mu         sync.Mutex
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	clock      clock.Clock
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Clock      clock.Clock
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL(), clk),
		bcryptCost: cfg.BcryptCost,
		clock:      clk,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register creates a new account. The email must not be registered yet.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)

	if utf8.RuneCountInString(name) < minNameLength {
		return nil, apperrors.NewFieldError("name", "name must have at least 2 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewFieldError("email", "invalid email")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for _, existing := range users {
		if domain.NormalizeEmail(existing.Email) == email {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Department:   strings.TrimSpace(input.Department),
		Role:         domain.RoleForEmail(email),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.SaveAll(ctx, append(users, user)); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user registered", zap.String("email", email), zap.String("role", string(user.Role)))
	if s.dispatcher != nil {
		event := events.New(events.EventUserRegistered, 0, email, user.CreatedAt,
			events.UserRegisteredPayload{Email: email, Role: user.Role})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return &user, nil
}

// Authenticate returns the user whose email and password both match.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, ok, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if auth.NeedsRehash(user.PasswordHash, s.bcryptCost) {
		if err := s.rehash(ctx, user.Email, password); err != nil {
			s.logger.Warn("password rehash failed", zap.String("email", user.Email), zap.Error(err))
		}
	}
	return user, nil
}

// rehash re-stores the password hash at the configured cost.
func (s *AuthService) rehash(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if domain.NormalizeEmail(users[i].Email) == email {
			users[i].PasswordHash = hash
			return s.users.SaveAll(ctx, users)
		}
	}
	return nil
}

// Login authenticates and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	key := domain.NormalizeEmail(email)
	for i := range users {
		if domain.NormalizeEmail(users[i].Email) != key {
			continue
		}
		if err := auth.ComparePassword(users[i].PasswordHash, currentPassword); err != nil {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		users[i].PasswordHash = hash
		if err := s.users.SaveAll(ctx, users); err != nil {
			return apperrors.NewInternalError(err)
		}
		return nil
	}
	return apperrors.NewNotFound("user", map[string]any{"email": key})
}

// CountByRole returns how many users hold role.
func (s *AuthService) CountByRole(ctx context.Context, role domain.UserRole) (int, error) {
	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	count := 0
	for _, user := range users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return apperrors.NewFieldError("password", "password must have at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return apperrors.NewFieldError("password", "password must be at most 72 bytes")
	}
	return nil
}
