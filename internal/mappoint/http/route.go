package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *MapPointHandler, authMiddleware gin.HandlerFunc) {
	points := g.Group("/grounds/:id/points")
	points.Use(authMiddleware)
	{
		points.GET("", h.List)                // Points of a ground
		points.POST("", h.Create)             // Place point
		points.DELETE("/:point_id", h.Delete) // Remove point
	}
}
