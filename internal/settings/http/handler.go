package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/apperror"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/response"
	"github.com/lunarfrog/booking-link-backend/internal/settings"
)

type Handler struct {
	service settings.Service
}

func NewHandler(service settings.Service) *Handler {
	return &Handler{service: service}
}

// Get returns the authenticated owner's scheduling policy.
func (h *Handler) Get(c *gin.Context) {
	s, err := h.service.GetForOwner(c.Request.Context(), auth.GetOwnerID(c))
	if err != nil {
		if errors.Is(err, settings.ErrInvalid) {
			response.Error(c, apperror.Configuration(err, "owner settings are invalid"))
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(s))
}

// Update replaces the authenticated owner's scheduling policy.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	s := &settings.Settings{
		OwnerID:             auth.GetOwnerID(c),
		Timezone:            req.Timezone,
		SlotDurationMinutes: req.SlotDurationMinutes,
		BufferMinutes:       req.BufferMinutes,
		MinNoticeHours:      req.MinNoticeHours,
		BookingWindowDays:   req.BookingWindowDays,
		WeeklySchedule:      req.WeeklySchedule,
	}

	saved, err := h.service.Update(c.Request.Context(), s)
	if err != nil {
		if errors.Is(err, settings.ErrInvalid) {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(saved))
}
