package repository

import (
	"context"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// UserRepository loads and replaces the user directory.
type UserRepository interface {
	LoadAll(ctx context.Context) ([]domain.User, error)
	SaveAll(ctx context.Context, users []domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, bool, error)
}

type userRepository struct {
	kv persistence.KeyValueStore
}

// NewUserRepository returns a repository persisting through kv.
func NewUserRepository(kv persistence.KeyValueStore) UserRepository {
	return &userRepository{kv: kv}
}

func (r *userRepository) LoadAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if _, err := loadJSON(ctx, r.kv, keyUsers, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (r *userRepository) SaveAll(ctx context.Context, users []domain.User) error {
	return saveJSON(ctx, r.kv, keyUsers, users)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	users, err := r.LoadAll(ctx)
	if err != nil {
		return nil, false, err
	}
	key := domain.NormalizeEmail(email)
	for i := range users {
		if domain.NormalizeEmail(users[i].Email) == key {
			user := users[i]
			return &user, true, nil
		}
	}
	return nil, false, nil
}
