package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of access roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string against the closed enum.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Username and password constraints applied at registration.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 6
)

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeUsername lowercases and trims a raw username. Stored usernames
// and lookups always use this form.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NewUsername normalizes and validates a raw username. Validation runs once
// here, at the registration boundary, never implicitly on mutation.
func NewUsername(raw string) (string, error) {
	username := NormalizeUsername(raw)

	if username == "" {
		return "", errors.New("username must not be empty")
	}
	if len(username) < MinUsernameLen {
		return "", fmt.Errorf("username must be at least %d characters", MinUsernameLen)
	}
	if len(username) > MaxUsernameLen {
		return "", fmt.Errorf("username must be at most %d characters", MaxUsernameLen)
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return "", errors.New("username may only contain letters, numbers, hyphens and underscores")
		}
	}
	return username, nil
}
