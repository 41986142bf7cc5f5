package http

import (
	"time"

	"github.com/lunarfrog/booking-link-backend/internal/owner"
)

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OwnerResponse is the shape of owner data returned in API responses.
type OwnerResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name,omitempty"`
	Slug        string     `json:"slug"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// RegisterResponse is the response for POST /v1/auth/register.
type RegisterResponse struct {
	Owner OwnerResponse `json:"owner"`
}

// LoginResponse is the response for POST /v1/auth/login.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	Owner       OwnerResponse `json:"owner"`
}

// MeResponse is the response for GET /v1/me.
type MeResponse struct {
	Owner OwnerResponse `json:"owner"`
}

// NewOwnerResponse converts domain owner.Owner to OwnerResponse used by the API.
func NewOwnerResponse(o *owner.Owner) OwnerResponse {
	var lastLoginAt *time.Time
	if o.LastLoginAt != nil {
		ll := *o.LastLoginAt
		lastLoginAt = &ll
	}

	return OwnerResponse{
		ID:          o.ID,
		Email:       o.Email,
		DisplayName: o.DisplayName,
		Slug:        o.Slug,
		CreatedAt:   o.CreatedAt,
		LastLoginAt: lastLoginAt,
		IsActive:    o.IsActive,
	}
}
