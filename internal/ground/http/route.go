package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers ground-related routes. Listing the caller's
// grounds lives with the overview endpoints.
func RegisterRoutes(g *gin.RouterGroup, h *GroundHandler, authMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	g.GET("/invites/:code", h.PreviewInvite) // Ground behind an invite code

	// === Authenticated Routes ===
	groundGroup := g.Group("/grounds")
	groundGroup.Use(authMiddleware)
	{
		groundGroup.POST("", h.Create)                               // Create ground
		groundGroup.GET("/:id", h.Get)                               // Ground with centroid and capabilities
		groundGroup.PATCH("/:id", h.Update)                          // Rename / describe
		groundGroup.DELETE("/:id", h.Delete)                         // Owner only, cascades
		groundGroup.PUT("/:id/boundary", h.SetBoundary)              // Replace boundary
		groundGroup.POST("/:id/invite-code", h.RegenerateInviteCode) // New invite code
	}

	g.POST("/boundary/preview", authMiddleware, h.PreviewBoundary)
}
