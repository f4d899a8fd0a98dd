package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *GroundInfoHandler, authMiddleware gin.HandlerFunc) {
	g.GET("/grounds", authMiddleware, h.List)         // Home page cards
	g.GET("/grounds/:id/info", authMiddleware, h.Get) // Ground info page
}
