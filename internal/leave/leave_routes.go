package leave

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	const resource = "leave_application"

	applications := r.Group("/leave-applications")
	{
		applications.POST("", middleware.RBACAuthorize(rbacService, resource, "create"), handler.Create)
		applications.GET("", middleware.RBACAuthorize(rbacService, resource, "read_all"), handler.GetAll)
		applications.GET("/employee/:employeeId", middleware.SelfOrRBAC(rbacService, "employeeId", resource, "read_any"), handler.GetByEmployee)
		applications.GET("/:id", middleware.RBACAuthorize(rbacService, resource, "read_all"), handler.GetByID)
		applications.PATCH("/:id", middleware.RBACAuthorize(rbacService, resource, "create"), handler.Update)
		applications.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, resource, "approve"), handler.UpdateStatus)
		applications.PATCH("/:id/cancel", middleware.RBACAuthorize(rbacService, resource, "create"), handler.Cancel)
		applications.DELETE("/:id", middleware.RBACAuthorize(rbacService, resource, "delete"), handler.Delete)
	}
}
