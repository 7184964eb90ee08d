package service

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/repository"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// SettingsPatch carries the fields a caller wants to change; nil means keep.
type SettingsPatch struct {
	Theme           *string
	FontSize        *string
	DefaultPriority *string
	Notifications   map[string]bool
}

// SettingsService manages per-user preferences.
type SettingsService struct {
	mu       sync.Mutex
	settings repository.SettingsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the saved settings, or defaults when nothing was saved.
func (s *SettingsService) Get(ctx context.Context, email string) (domain.Settings, error) {
	settings, ok, err := s.settings.Get(ctx, email)
	if err != nil {
		return domain.Settings{}, apperrors.NewInternalError(err)
	}
	if !ok {
		return domain.DefaultSettings(), nil
	}
	return fillDefaults(settings), nil
}

// Update validates every field of patch before persisting any of them.
func (s *SettingsService) Update(ctx context.Context, email string, patch SettingsPatch) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(ctx, email)
	if err != nil {
		return domain.Settings{}, err
	}

	if patch.Theme != nil {
		theme, err := domain.ParseTheme(*patch.Theme)
		if err != nil {
			return domain.Settings{}, apperrors.NewFieldError("theme", err.Error())
		}
		current.Theme = theme
	}
	if patch.FontSize != nil {
		size, err := domain.ParseFontSize(*patch.FontSize)
		if err != nil {
			return domain.Settings{}, apperrors.NewFieldError("fontSize", err.Error())
		}
		current.FontSize = size
	}
	if patch.DefaultPriority != nil {
		priority, err := domain.ParseTicketPriority(*patch.DefaultPriority)
		if err != nil {
			return domain.Settings{}, apperrors.NewFieldError("defaultPriority", err.Error())
		}
		current.DefaultPriority = priority
	}
	for id, enabled := range patch.Notifications {
		id = strings.TrimSpace(id)
		if id == "" {
			return domain.Settings{}, apperrors.NewFieldError("notifications", "notification id must not be empty")
		}
		current.Notifications[id] = enabled
	}

	if err := s.settings.Save(ctx, email, current); err != nil {
		return domain.Settings{}, apperrors.NewInternalError(err)
	}
	return current, nil
}

// DefaultPriority returns the priority to use when a new ticket omits one.
func (s *SettingsService) DefaultPriority(ctx context.Context, email string) (domain.TicketPriority, error) {
	settings, err := s.Get(ctx, email)
	if err != nil {
		return "", err
	}
	return settings.DefaultPriority, nil
}

func fillDefaults(settings domain.Settings) domain.Settings {
	defaults := domain.DefaultSettings()
	if !settings.Theme.IsValid() {
		settings.Theme = defaults.Theme
	}
	if !settings.FontSize.IsValid() {
		settings.FontSize = defaults.FontSize
	}
	if !settings.DefaultPriority.IsValid() {
		settings.DefaultPriority = defaults.DefaultPriority
	}
	if settings.Notifications == nil {
		settings.Notifications = map[string]bool{}
	}
	return settings
}
