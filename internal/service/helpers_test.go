package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/persistence"
	"github.com/spec-kit/ticket-desk/internal/repository"
)

var testStart = time.Date(2024, 3, 4, 9, 15, 0, 0, time.UTC)

type fixture struct {
	kv       *persistence.MemoryStore
	clock    *clock.Fake
	events   *[]events.Event
	tickets  *TicketService
	auth     *AuthService
	settings *SettingsService
	sessions *SessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := persistence.NewMemoryStore()
	clk := clock.NewFake(testStart)
	dispatcher := events.NewInMemoryDispatcher()
	recorded := &[]events.Event{}
	record := func(_ context.Context, e events.Event) error {
		*recorded = append(*recorded, e)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, record)
	dispatcher.Subscribe(events.EventTicketCommentAdded, record)
	dispatcher.Subscribe(events.EventTicketStatusChanged, record)
	dispatcher.Subscribe(events.EventUserRegistered, record)

	authService := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}, AuthDependencies{
		UserRepo:   repository.NewUserRepository(kv),
		Clock:      clk,
		Dispatcher: dispatcher,
	})

	return &fixture{
		kv:     kv,
		clock:  clk,
		events: recorded,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: repository.NewTicketRepository(kv),
			Clock:      clk,
			Dispatcher: dispatcher,
		}),
		auth:     authService,
		settings: NewSettingsService(repository.NewSettingsRepository(kv)),
		sessions: NewSessionService(authService, repository.NewSessionRepository(kv)),
	}
}
