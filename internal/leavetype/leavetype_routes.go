package leavetype

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already carry authentication.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	types := r.Group("/types")
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetAll)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetByID)
		types.POST("", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.Create)
		types.PATCH("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.Update)
		types.PATCH("/:id/soft-delete", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.SoftDelete)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.Delete)
	}
}
