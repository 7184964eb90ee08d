package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusResolved,
}

// IsValid returns true if the status is a known ticket status.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// ParseTicketStatus accepts any casing and either "-" or "_" as separator.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	s := TicketStatus(strings.ReplaceAll(normalize(raw), "_", "-"))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid status %q (valid: %s)", raw, joinValues(TicketStatuses))
	}
	return s, nil
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// TicketPriorities lists every priority from least to most urgent.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
}

// IsValid returns true if the priority is a known ticket priority.
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// ParseTicketPriority parses a priority ignoring case and surrounding space.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	p := TicketPriority(normalize(raw))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority %q (valid: %s)", raw, joinValues(TicketPriorities))
	}
	return p, nil
}

// TicketCategory tags the area a ticket belongs to.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "hardware"
	TicketCategorySoftware TicketCategory = "software"
	TicketCategoryNetwork  TicketCategory = "network"
	TicketCategoryAccess   TicketCategory = "access"
	TicketCategoryOther    TicketCategory = "other"
)

// TicketCategories lists every category.
var TicketCategories = []TicketCategory{
	TicketCategoryHardware,
	TicketCategorySoftware,
	TicketCategoryNetwork,
	TicketCategoryAccess,
	TicketCategoryOther,
}

// IsValid returns true if the category is a known ticket category.
func (c TicketCategory) IsValid() bool {
	switch c {
	case TicketCategoryHardware, TicketCategorySoftware, TicketCategoryNetwork, TicketCategoryAccess, TicketCategoryOther:
		return true
	}
	return false
}

// ParseTicketCategory parses a category ignoring case and surrounding space.
func ParseTicketCategory(raw string) (TicketCategory, error) {
	c := TicketCategory(normalize(raw))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category %q (valid: %s)", raw, joinValues(TicketCategories))
	}
	return c, nil
}

// Ticket is a unit of reported work with its comment thread.
type Ticket struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	Comments    []Comment      `json:"comments"`
}

// Comment is an append-only note attached to a ticket.
type Comment struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// Clone returns a copy that shares no comment storage with t.
func (t Ticket) Clone() Ticket {
	out := t
	out.Comments = make([]Comment, len(t.Comments))
	copy(out.Comments, t.Comments)
	return out
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
