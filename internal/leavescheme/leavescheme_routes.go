package leavescheme

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	read := middleware.RBACAuthorize(rbacService, "leave_scheme", "read")
	manage := middleware.RBACAuthorize(rbacService, "leave_scheme", "manage")

	schemes := r.Group("/schemes")
	{
		schemes.GET("", read, handler.GetAll)
		schemes.GET("/:id", read, handler.GetByID)
		schemes.POST("", manage, handler.Create)
		schemes.PATCH("/:id", manage, handler.Update)
		schemes.DELETE("/:id", manage, handler.Delete)

		schemes.POST("/:id/leave-types", manage, handler.AddLeaveType)
		schemes.PATCH("/:id/leave-types/:leaveTypeId", manage, handler.UpdateLeaveType)
		schemes.DELETE("/:id/leave-types/:leaveTypeId", manage, handler.RemoveLeaveType)
	}
}
