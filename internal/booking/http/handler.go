package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/availability"
	"github.com/lunarfrog/booking-link-backend/internal/booking"
	"github.com/lunarfrog/booking-link-backend/internal/owner"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/request"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	owners  owner.Service
}

func NewHandler(service booking.Service, owners owner.Service) *Handler {
	return &Handler{service: service, owners: owners}
}

// Reserve claims a slot on the booking link for a guest. Returns 409 when
// the slot is unavailable or was taken by a concurrent guest.
func (h *Handler) Reserve(c *gin.Context) {
	o, err := h.owners.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, owner.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve booking link"})
		return
	}

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if !req.End.After(req.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}

	b, err := h.service.Reserve(c.Request.Context(), o.ID, booking.ReserveInput{
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		Message:    req.Message,
		Start:      req.Start,
		End:        req.End,
		Timezone:   req.Timezone,
	})
	if err != nil {
		var conflict *booking.SlotConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
		case errors.Is(err, booking.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, availability.ErrDateTooFar):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": NewGuestBookingResponse(b)})
}

// List returns the authenticated owner's bookings ordered by start time.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}
	req.Normalize()

	filter := booking.ListFilter{
		Status: booking.Status(req.Status),
		From:   req.From,
		To:     req.To,
	}
	limit := req.PageSize
	offset := (req.Page - 1) * req.PageSize

	bookings, total, err := h.service.List(c.Request.Context(), auth.GetOwnerID(c), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	items := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, NewBookingResponse(b))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get returns one of the owner's bookings.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), auth.GetOwnerID(c), uri.ID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}

// Cancel marks a confirmed booking cancelled. Cancellation is terminal.
func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	// The reason body is optional.
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
	}

	b, err := h.service.Cancel(c.Request.Context(), auth.GetOwnerID(c), uri.ID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, booking.ErrAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}
