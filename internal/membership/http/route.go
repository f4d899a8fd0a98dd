package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers membership routes. All of them require a user.
func RegisterRoutes(g *gin.RouterGroup, h *MembershipHandler, authMiddleware gin.HandlerFunc) {
	// === Ground Members ===
	members := g.Group("/grounds/:id")
	members.Use(authMiddleware)
	{
		members.GET("/members", h.List)                 // Members and pending invites
		members.POST("/members", h.Invite)              // Invite by email
		members.PATCH("/members/:member_id", h.Update)  // Role / permissions
		members.DELETE("/members/:member_id", h.Remove) // Remove member
		members.POST("/leave", h.Leave)                 // Leave ground
	}

	// === Caller's Memberships ===
	mine := g.Group("/memberships")
	mine.Use(authMiddleware)
	{
		mine.POST("/join", h.Join)          // Join with invite code
		mine.GET("/pending", h.ListPending) // Invites for my email
		mine.POST("/:id/accept", h.Accept)  // Accept invite
	}
}
