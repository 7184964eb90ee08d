package repository

import (
	"context"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// TicketRepository loads and replaces the whole ticket collection.
type TicketRepository interface {
	LoadAll(ctx context.Context) ([]domain.Ticket, error)
	SaveAll(ctx context.Context, tickets []domain.Ticket) error
}

type ticketRepository struct {
	kv persistence.KeyValueStore
}

// NewTicketRepository returns a repository persisting through kv.
func NewTicketRepository(kv persistence.KeyValueStore) TicketRepository {
	return &ticketRepository{kv: kv}
}

func (r *ticketRepository) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if _, err := loadJSON(ctx, r.kv, keyTickets, &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	for i := range tickets {
		if tickets[i].Comments == nil {
			tickets[i].Comments = []domain.Comment{}
		}
	}
	return tickets, nil
}

func (r *ticketRepository) SaveAll(ctx context.Context, tickets []domain.Ticket) error {
	return saveJSON(ctx, r.kv, keyTickets, tickets)
}
