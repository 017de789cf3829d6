package auth

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes mounts the endpoints that work without a token.
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.RefreshToken)
		auth.POST("/logout", handler.Logout)
	}
}

// RegisterRoutes mounts the endpoints behind AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/register", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.Register)
	}
}
