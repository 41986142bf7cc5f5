package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, publicGroup *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	publicGroup.GET("/:slug/availability", h.PublicDay)
	g.GET("/availability", authMiddleware, h.OwnerDay)
}
