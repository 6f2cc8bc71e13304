package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role enumerates account roles. Roles are flat: no role implies another.
type Role string

const (
	RoleCitizen   Role = "CITIZEN"
	RoleResponder Role = "RESPONDER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole converts signup input into a Role. Input is upper-cased before
// matching; anything outside the three canonical values is an error, never a
// coerced role.
func ParseRole(input string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(input))) {
	case RoleCitizen:
		return RoleCitizen, nil
	case RoleResponder:
		return RoleResponder, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q", input)
	}
}

// User is the persisted account model.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
