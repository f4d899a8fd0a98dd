package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *ReservationHandler, authMiddleware gin.HandlerFunc) {
	// === Ground Map ===
	byGround := g.Group("/grounds/:id/reservations")
	byGround.Use(authMiddleware)
	{
		byGround.GET("", h.ListByGround) // Active reservations of a ground
		byGround.POST("", h.Create)      // Reserve
	}

	// === Overview ===
	res := g.Group("/reservations")
	res.Use(authMiddleware)
	{
		res.GET("", h.List)                   // All my grounds, bucketed and paged
		res.GET("/:id", h.Get)                // Single reservation
		res.POST("/:id/cancel", h.Cancel)     // Cancel
		res.POST("/:id/complete", h.Complete) // Mark completed
	}
}
