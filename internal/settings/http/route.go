package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	settingsGroup := g.Group("/settings", authMiddleware)
	{
		settingsGroup.GET("", h.Get)
		settingsGroup.PUT("", h.Update)
	}
}
