package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// SessionRepository remembers the single logged-in CLI session.
type SessionRepository interface {
	Get(ctx context.Context) (*domain.Session, bool, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	kv persistence.KeyValueStore
}

// NewSessionRepository returns a repository persisting through kv.
func NewSessionRepository(kv persistence.KeyValueStore) SessionRepository {
	return &sessionRepository{kv: kv}
}

func (r *sessionRepository) Get(ctx context.Context) (*domain.Session, bool, error) {
	var session domain.Session
	ok, err := loadJSON(ctx, r.kv, keySession, &session)
	if err != nil || !ok {
		return nil, false, err
	}
	return &session, true, nil
}

func (r *sessionRepository) Save(ctx context.Context, session domain.Session) error {
	return saveJSON(ctx, r.kv, keySession, session)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.kv.Remove(ctx, keySession); err != nil {
		return fmt.Errorf("remove %s: %w", keySession, err)
	}
	return nil
}
