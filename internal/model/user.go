package model

import "time"

// Principal is the stable opaque identity of an authenticated caller,
// supplied by the external identity resolver. The engine only ever compares
// principals for equality.
type Principal string

type UserRole string

const (
	RoleGuest UserRole = "guest"
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// AccessState is derived per request from the role table, never stored.
type AccessState struct {
	RequiresInvite bool `json:"requiresInvite"`
	IsUser         bool `json:"isUser"`
	IsAdmin        bool `json:"isAdmin"`
}

type UserProfile struct {
	User      Principal `db:"User" json:"-"`
	Email     string    `db:"Email" json:"email"`
	City      string    `db:"City" json:"city"`
	CreatedAt time.Time `db:"CreatedAt" json:"-"`
}
