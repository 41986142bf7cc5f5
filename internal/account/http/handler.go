package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunarfrog/booking-link-backend/internal/account"
	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/request"
)

type Handler struct {
	service account.Service
}

func NewHandler(service account.Service) *Handler {
	return &Handler{service: service}
}

// Connect starts the Google OAuth flow and returns the consent URL.
func (h *Handler) Connect(c *gin.Context) {
	url, err := h.service.ConnectURL(auth.GetOwnerID(c), auth.GetOwnerEmail(c))
	if err != nil {
		if errors.Is(err, account.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google calendar integration is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start google connect"})
		return
	}

	c.JSON(http.StatusOK, ConnectResponse{AuthURL: url})
}

// Callback completes the Google OAuth flow. Google redirects the browser
// here, so identity comes from the signed state rather than a bearer token.
func (h *Handler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	a, err := h.service.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidState):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired oauth state"})
		case errors.Is(err, account.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google calendar integration is not configured"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to connect google account"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": NewAccountResponse(a)})
}

// List returns the owner's connected calendar accounts.
func (h *Handler) List(c *gin.Context) {
	accounts, err := h.service.List(c.Request.Context(), auth.GetOwnerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list accounts"})
		return
	}

	resp := ListAccountsResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, NewAccountResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

// Update changes which calendars of the account are consulted for busy time.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	a, err := h.service.UpdateCalendarIDs(c.Request.Context(), auth.GetOwnerID(c), uri.ID, req.CalendarIDs)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		case errors.Is(err, account.ErrNoCalendars):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update account"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": NewAccountResponse(a)})
}

// Disconnect removes a connected account and its stored credentials.
func (h *Handler) Disconnect(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	if err := h.service.Disconnect(c.Request.Context(), auth.GetOwnerID(c), uri.ID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disconnect account"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCalendars returns the calendars visible to the connected account, so
// the owner can choose which ones feed availability.
func (h *Handler) ListCalendars(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	calendars, err := h.service.ListCalendars(c.Request.Context(), auth.GetOwnerID(c), uri.ID)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		case errors.Is(err, account.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google calendar integration is not configured"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list calendars"})
		}
		return
	}

	c.JSON(http.StatusOK, ListCalendarsResponse{Calendars: calendars})
}
