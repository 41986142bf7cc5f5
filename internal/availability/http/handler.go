package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/availability"
	"github.com/lunarfrog/booking-link-backend/internal/owner"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/apperror"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/response"
	"github.com/lunarfrog/booking-link-backend/internal/settings"
)

type Handler struct {
	service availability.Service
	owners  owner.Service
}

func NewHandler(service availability.Service, owners owner.Service) *Handler {
	return &Handler{service: service, owners: owners}
}

// PublicDay returns the bookable slots for the owner behind a booking-link
// slug on the requested date. This is the endpoint guests hit.
func (h *Handler) PublicDay(c *gin.Context) {
	o, err := h.owners.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, owner.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve booking link"})
		return
	}

	h.day(c, o.ID)
}

// OwnerDay returns the authenticated owner's own slots, used to preview the
// booking page.
func (h *Handler) OwnerDay(c *gin.Context) {
	h.day(c, auth.GetOwnerID(c))
}

func (h *Handler) day(c *gin.Context, ownerID string) {
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter must be YYYY-MM-DD"})
		return
	}
	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter must be YYYY-MM-DD"})
		return
	}

	day, err := h.service.DaySlots(c.Request.Context(), ownerID, date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrDateTooFar):
			response.Error(c, apperror.Validation(err.Error()))
		case errors.Is(err, settings.ErrInvalid):
			response.Error(c, apperror.Configuration(err, "owner settings are invalid"))
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(q.Date, day))
}
