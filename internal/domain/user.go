package domain

import (
	"fmt"
	"strings"
	"time"
)

// UserRole separates requesters from support technicians.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// IsValid returns true if the role is known.
func (r UserRole) IsValid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// adminMarkers flag support-team addresses.
var adminMarkers = []string{"admin", "suporte", "tecnico"}

// RoleForEmail derives the role from the address the way the help-desk
// client did: support addresses get admin.
func RoleForEmail(email string) UserRole {
	lower := strings.ToLower(email)
	for _, marker := range adminMarkers {
		if strings.Contains(lower, marker) {
			return UserRoleAdmin
		}
	}
	return UserRoleUser
}

// ParseUserRole parses a role ignoring case.
func ParseUserRole(raw string) (UserRole, error) {
	r := UserRole(normalize(raw))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q (valid: user, admin)", raw)
	}
	return r, nil
}

// User is a registered help-desk account.
type User struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Department   string    `json:"department,omitempty"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail returns the lookup key for an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
