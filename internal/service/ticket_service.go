package service

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/repository"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

const (
	minTitleLength       = 5
	minDescriptionLength = 20
	defaultCommentAuthor = "Anonymous"
)

// TicketService owns the ticket collection. Every mutation reads the whole
// collection, changes it in memory, and writes it back.
type TicketService struct {
	mu         sync.Mutex
	tickets    repository.TicketRepository
	clock      clock.Clock
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Clock      clock.Clock
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Description string
	Actor       string
}

// TicketFilter narrows ListTickets results. Zero values match everything.
type TicketFilter struct {
	Status   domain.TicketStatus
	Priority domain.TicketPriority
	Search   string
}

// TicketStats counts tickets per status.
type TicketStats struct {
	Year       int `json:"year,omitempty"`
	Total      int `json:"total"`
	Open       int `json:"open"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		clock:      clk,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListTickets returns every ticket in insertion order.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// FilterTickets returns the tickets matching filter, keeping insertion order.
func (s *TicketService) FilterTickets(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.NewFieldError("status", "unknown status")
	}
	if filter.Priority != "" && !filter.Priority.IsValid() {
		return nil, apperrors.NewFieldError("priority", "unknown priority")
	}

	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && ticket.Priority != filter.Priority {
			continue
		}
		if search != "" && !matchesSearch(ticket, search) {
			continue
		}
		result = append(result, ticket)
	}
	return result, nil
}

// CreateTicket validates input, assigns the next id, and persists the ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	if utf8.RuneCountInString(title) < minTitleLength {
		return nil, apperrors.NewFieldError("title", "title must have at least 5 characters")
	}
	if !input.Category.IsValid() {
		return nil, apperrors.NewFieldError("category", "unknown category")
	}
	if !input.Priority.IsValid() {
		return nil, apperrors.NewFieldError("priority", "unknown priority")
	}
	if utf8.RuneCountInString(description) < minDescriptionLength {
		return nil, apperrors.NewFieldError("description", "description must have at least 20 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	ticket := domain.Ticket{
		ID:          nextTicketID(tickets),
		Title:       title,
		Category:    input.Category,
		Priority:    input.Priority,
		Description: description,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   s.clock.Now(),
		Comments:    []domain.Comment{},
	}
	tickets = append(tickets, ticket)

	if err := s.tickets.SaveAll(ctx, tickets); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("ticket created", zap.Int64("ticket_id", ticket.ID), zap.String("priority", string(ticket.Priority)))
	s.publishEvent(ctx, events.New(events.EventTicketCreated, ticket.ID, input.Actor, ticket.CreatedAt,
		events.TicketCreatedPayload{Title: ticket.Title, Category: ticket.Category, Priority: ticket.Priority}))

	out := ticket.Clone()
	return &out, nil
}

// GetTicket returns the ticket with id.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfTicket(tickets, id)
	if idx < 0 {
		return nil, ticketNotFound(id)
	}
	out := tickets[idx].Clone()
	return &out, nil
}

// AddComment appends a comment to the ticket's thread. Nothing is written
// when validation or lookup fails.
func (s *TicketService) AddComment(ctx context.Context, ticketID int64, author, text string) (*domain.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewFieldError("text", "comment text is required")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = defaultCommentAuthor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	idx := indexOfTicket(tickets, ticketID)
	if idx < 0 {
		return nil, ticketNotFound(ticketID)
	}

	comment := domain.Comment{Author: author, Text: text, Date: s.clock.Now()}
	tickets[idx].Comments = append(tickets[idx].Comments, comment)

	if err := s.tickets.SaveAll(ctx, tickets); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.New(events.EventTicketCommentAdded, ticketID, author, comment.Date,
		events.TicketCommentAddedPayload{
			Author:      author,
			TextPreview: stringPreview(text, 120),
			Position:    len(tickets[idx].Comments),
		}))

	out := tickets[idx].Clone()
	return &out, nil
}

// UpdateStatus overwrites the ticket status.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID int64, status domain.TicketStatus, actor string) (*domain.Ticket, error) {
	if !status.IsValid() {
		return nil, apperrors.NewFieldError("status", "unknown status")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	idx := indexOfTicket(tickets, ticketID)
	if idx < 0 {
		return nil, ticketNotFound(ticketID)
	}

	oldStatus := tickets[idx].Status
	tickets[idx].Status = status
	if err := s.tickets.SaveAll(ctx, tickets); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("ticket status changed",
		zap.Int64("ticket_id", ticketID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(status)))
	s.publishEvent(ctx, events.New(events.EventTicketStatusChanged, ticketID, actor, s.clock.Now(),
		events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: status}))

	out := tickets[idx].Clone()
	return &out, nil
}

// Stats counts tickets per status. A zero year counts every ticket.
func (s *TicketService) Stats(ctx context.Context, year int) (TicketStats, error) {
	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return TicketStats{}, err
	}

	stats := TicketStats{Year: year}
	for _, ticket := range tickets {
		if year != 0 && ticket.CreatedAt.Year() != year {
			continue
		}
		stats.Total++
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusPending:
			stats.Pending++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		}
	}
	return stats, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func nextTicketID(tickets []domain.Ticket) int64 {
	var maxID int64
	for _, ticket := range tickets {
		if ticket.ID > maxID {
			maxID = ticket.ID
		}
	}
	return maxID + 1
}

func indexOfTicket(tickets []domain.Ticket, id int64) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func ticketNotFound(id int64) error {
	return apperrors.NewNotFound("ticket", map[string]any{"id": id})
}

func matchesSearch(ticket domain.Ticket, needle string) bool {
	return strings.Contains(strings.ToLower(ticket.Title), needle) ||
		strings.Contains(strings.ToLower(ticket.Description), needle) ||
		strings.Contains(string(ticket.Category), needle)
}

func stringPreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
