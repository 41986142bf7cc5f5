package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, publicGroup *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	publicGroup.POST("/:slug/bookings", h.Reserve)

	bookingGroup := g.Group("/bookings", authMiddleware)
	{
		bookingGroup.GET("", h.List)
		bookingGroup.GET("/:id", h.Get)
		bookingGroup.PATCH("/:id/cancel", h.Cancel)
	}
}
