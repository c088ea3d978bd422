package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies what a user may do
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole converts a role name (any case) to a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents a registered customer or administrator
type User struct {
	ID           string // National identifier (cedula), unique
	PasswordHash string // Bcrypt hash, never returned by the API
	Role         Role
	Name         string
	Phone        string
	Email        string
	BirthDate    time.Time
}

// DateLayout is the on-disk and API format for birth dates
const DateLayout = "2006-01-02"
