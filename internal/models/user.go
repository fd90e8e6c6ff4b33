package models

import (
	"time"
)

type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
)

func (r Role) String() string {
	return string(r)
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleStudent, RoleInstructor:
		return true
	default:
		return false
	}
}

type User struct {
	ID               string     `json:"userId" db:"id"`
	Name             string     `json:"name" db:"name"`
	Email            string     `json:"email" db:"email"`
	Role             Role       `json:"role" db:"role"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	ResetToken       *string    `json:"-" db:"reset_token"`
	ResetTokenExpiry *time.Time `json:"-" db:"reset_token_expiry"`
}
