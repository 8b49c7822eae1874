package models

import "time"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             string
	Username       string
	PasswordHash   []byte
	Role           Role
	Name           string
	Email          string
	Phone          *string
	Specialization *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session is the point-in-time snapshot taken at login. It is keyed by the
// sha256 of the opaque cookie token and is never refreshed from the users
// table while it lives.
type Session struct {
	TokenHash      []byte
	UserID         string
	Username       string
	Role           Role
	Name           string
	Email          string
	Specialization *string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
