package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TicketStatus
		wantErr bool
	}{
		{"open", "open", TicketStatusOpen, false},
		{"pending", "pending", TicketStatusPending, false},
		{"in-progress hyphen", "in-progress", TicketStatusInProgress, false},
		{"in_progress underscore", "in_progress", TicketStatusInProgress, false},
		{"resolved uppercase", "RESOLVED", TicketStatusResolved, false},
		{"with whitespace", "  open ", TicketStatusOpen, false},
		{"closed is not a status", "closed", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTicketStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "valid:")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTicketPriority(t *testing.T) {
	tests := []struct {
		input   string
		want    TicketPriority
		wantErr bool
	}{
		{"low", TicketPriorityLow, false},
		{"Medium", TicketPriorityMedium, false},
		{"HIGH", TicketPriorityHigh, false},
		{"urgent", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTicketPriority(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTicketCategory(t *testing.T) {
	for _, c := range TicketCategories {
		got, err := ParseTicketCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseTicketCategory("plumbing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hardware")
}

func TestTicketCloneDoesNotShareComments(t *testing.T) {
	original := Ticket{ID: 1, Comments: []Comment{{Author: "a", Text: "first", Date: time.Unix(0, 0)}}}
	clone := original.Clone()
	clone.Comments[0].Text = "changed"
	clone.Comments = append(clone.Comments, Comment{Text: "second"})

	assert.Equal(t, "first", original.Comments[0].Text)
	assert.Len(t, original.Comments, 1)
}

func TestRoleForEmail(t *testing.T) {
	assert.Equal(t, UserRoleAdmin, RoleForEmail("admin@corp.com"))
	assert.Equal(t, UserRoleAdmin, RoleForEmail("Suporte.TI@corp.com"))
	assert.Equal(t, UserRoleAdmin, RoleForEmail("tecnico1@corp.com"))
	assert.Equal(t, UserRoleUser, RoleForEmail("maria@corp.com"))
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, UserRoleAdmin, role)

	_, err = ParseUserRole("root")
	assert.Error(t, err)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.False(t, Session{}.Expired(now))
}
