package account

import (
	"errors"
	"time"
)

// Account is a connected Google calendar account. One owner can connect
// several accounts; every account belongs to exactly one owner.
type Account struct {
	ID          string
	OwnerID     string
	Email       string
	DisplayName *string

	// OAuth credentials for this account. The access token is refreshed in
	// place as it nears expiry; refreshed tokens overwrite stored ones.
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time

	// CalendarIDs are the calendars consulted for busy intervals.
	CalendarIDs []string

	// IsPrimary marks the account whose first calendar receives booking
	// invite events.
	IsPrimary bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	ErrNotFound      = errors.New("calendar account not found")
	ErrNotConfigured = errors.New("google calendar integration is not configured")
	ErrInvalidState  = errors.New("invalid or expired oauth state")
	ErrNoCalendars   = errors.New("at least one calendar id is required")
)
