package dto

import (
	"time"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// CreateTicketRequest payload. An empty priority falls back to the
// caller's default priority setting.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// AddCommentRequest payload. Author defaults to the caller's name.
type AddCommentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TicketSummary is the list representation.
type TicketSummary struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Category     domain.TicketCategory `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	Status       domain.TicketStatus   `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
	CommentCount int                   `json:"commentCount"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
	Comments    []CommentResponse     `json:"comments"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// StatsResponse backs the dashboard.
type StatsResponse struct {
	Year        int `json:"year,omitempty"`
	Total       int `json:"total"`
	Open        int `json:"open"`
	Pending     int `json:"pending"`
	InProgress  int `json:"inProgress"`
	Resolved    int `json:"resolved"`
	Technicians int `json:"technicians"`
}

// NewTicketSummary maps a ticket to its list form.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Category:     ticket.Category,
		Priority:     ticket.Priority,
		Status:       ticket.Status,
		CreatedAt:    ticket.CreatedAt,
		CommentCount: len(ticket.Comments),
	}
}

// NewTicketDetail maps a ticket with its comment thread.
func NewTicketDetail(ticket *domain.Ticket) TicketDetailResponse {
	comments := make([]CommentResponse, 0, len(ticket.Comments))
	for _, c := range ticket.Comments {
		comments = append(comments, CommentResponse{Author: c.Author, Text: c.Text, Date: c.Date})
	}
	return TicketDetailResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Category:    ticket.Category,
		Priority:    ticket.Priority,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		Comments:    comments,
	}
}
