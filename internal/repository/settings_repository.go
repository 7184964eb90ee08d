package repository

import (
	"context"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// SettingsRepository stores preferences per user email.
type SettingsRepository interface {
	Get(ctx context.Context, email string) (domain.Settings, bool, error)
	Save(ctx context.Context, email string, settings domain.Settings) error
}

type settingsRepository struct {
	kv persistence.KeyValueStore
}

// NewSettingsRepository returns a repository persisting through kv.
func NewSettingsRepository(kv persistence.KeyValueStore) SettingsRepository {
	return &settingsRepository{kv: kv}
}

func settingsKey(email string) string {
	return keySettingsPrefix + domain.NormalizeEmail(email)
}

func (r *settingsRepository) Get(ctx context.Context, email string) (domain.Settings, bool, error) {
	var settings domain.Settings
	ok, err := loadJSON(ctx, r.kv, settingsKey(email), &settings)
	return settings, ok, err
}

func (r *settingsRepository) Save(ctx context.Context, email string, settings domain.Settings) error {
	return saveJSON(ctx, r.kv, settingsKey(email), settings)
}
