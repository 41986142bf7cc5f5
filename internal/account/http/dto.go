package http

import (
	"time"

	"github.com/lunarfrog/booking-link-backend/internal/account"
	"github.com/lunarfrog/booking-link-backend/internal/gcal"
)

// AccountResponse is the public view of a connected account. Credentials are
// never serialized.
type AccountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	CalendarIDs []string  `json:"calendar_ids"`
	IsPrimary   bool      `json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		CalendarIDs: a.CalendarIDs,
		IsPrimary:   a.IsPrimary,
		CreatedAt:   a.CreatedAt,
	}
}

type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

type ConnectResponse struct {
	AuthURL string `json:"auth_url"`
}

type UpdateAccountRequest struct {
	CalendarIDs []string `json:"calendar_ids" binding:"required,min=1,dive,required"`
}

type ListCalendarsResponse struct {
	Calendars []gcal.CalendarInfo `json:"calendars"`
}
