package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-desk/internal/domain"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

func strPtr(s string) *string { return &s }

func TestSettingsDefaults(t *testing.T) {
	f := newFixture(t)

	settings, err := f.settings.Get(context.Background(), "ana@corp.com")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	priority, err := f.settings.DefaultPriority(context.Background(), "ana@corp.com")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, priority)
}

func TestSettingsUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.settings.Update(ctx, "ana@corp.com", SettingsPatch{
		Theme:           strPtr("Dark"),
		DefaultPriority: strPtr("high"),
		Notifications:   map[string]bool{"email-notifications": true},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, updated.Theme)
	assert.Equal(t, domain.FontSizeMedium, updated.FontSize)
	assert.Equal(t, domain.TicketPriorityHigh, updated.DefaultPriority)

	_, err = f.settings.Update(ctx, "ana@corp.com", SettingsPatch{
		FontSize:      strPtr("large"),
		Notifications: map[string]bool{"push-notifications": false},
	})
	require.NoError(t, err)

	got, err := f.settings.Get(ctx, "ANA@corp.com")
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{
		Theme:           domain.ThemeDark,
		FontSize:        domain.FontSizeLarge,
		DefaultPriority: domain.TicketPriorityHigh,
		Notifications:   map[string]bool{"email-notifications": true, "push-notifications": false},
	}, got)
}

func TestSettingsUpdateRejectsInvalidWithoutSaving(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.settings.Update(ctx, "ana@corp.com", SettingsPatch{
		Theme:    strPtr("dark"),
		FontSize: strPtr("huge"),
	})
	require.Error(t, err)
	assert.Equal(t, "fontSize", apperrors.Field(err))

	got, err := f.settings.Get(ctx, "ana@corp.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, got.Theme)
}

func TestSettingsConcurrentUpdatesKeepEveryToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.settings.Update(ctx, "ana@corp.com", SettingsPatch{
				Notifications: map[string]bool{fmt.Sprintf("toggle-%d", i): true},
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := f.settings.Get(ctx, "ana@corp.com")
	require.NoError(t, err)
	assert.Len(t, got.Notifications, writers)
}
