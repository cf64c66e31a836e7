// Package users models accounts and their roles. Orders and notifications
// reference users by id; role changes are an administrative action on the
// order-service API.
package users

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

// Role is what a user is allowed to act as.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleChef     Role = "CHEF"
)

// ParseRole converts a string into a Role. Roles are case sensitive.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleChef:
		return Role(s), true
	}
	return "", false
}

// User is one account.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
