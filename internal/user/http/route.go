package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the auth endpoints and the current-user profile.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", authMiddleware, h.Logout)
	}

	// Authenticated Routes
	usersGroup := g.Group("/users")
	usersGroup.Use(authMiddleware)
	{
		usersGroup.GET("/me", h.Me)
		usersGroup.PATCH("/me", h.UpdateMe)
	}
}
