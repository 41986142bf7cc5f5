package owner

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("owner not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveOwner      = errors.New("owner is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrSlugTaken          = errors.New("booking slug already taken")
)

// Owner is a calendar owner who publishes a booking link. Guests reach the
// owner's availability through the public Slug; all connected calendar
// accounts, settings and bookings hang off the owner id.
type Owner struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Slug         string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}
