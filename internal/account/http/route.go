package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	googleGroup := g.Group("/google")
	{
		googleGroup.GET("/connect", authMiddleware, h.Connect)
		// Google redirects the browser here; the signed state authenticates.
		googleGroup.GET("/callback", h.Callback)
	}

	accountGroup := g.Group("/accounts", authMiddleware)
	{
		accountGroup.GET("", h.List)
		accountGroup.GET("/:id/calendars", h.ListCalendars)
		accountGroup.PATCH("/:id", h.Update)
		accountGroup.DELETE("/:id", h.Disconnect)
	}
}
