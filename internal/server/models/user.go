// Package models defines server-side data models persisted in the database.
package models

import "time"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// User is a stored account. PasswordHash holds the bcrypt hash and is never
// serialized.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// UserSummary is the public view of a user returned by the admin listing.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}
