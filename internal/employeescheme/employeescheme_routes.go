package employeescheme

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	read := middleware.RBACAuthorize(rbacService, "employee_scheme", "read")
	manage := middleware.RBACAuthorize(rbacService, "employee_scheme", "manage")

	assignments := r.Group("/employee-schemes")
	{
		assignments.GET("", read, handler.GetAll)
		assignments.GET("/employee/:employeeId", middleware.SelfOrRBAC(rbacService, "employeeId", "employee_scheme", "manage"), handler.GetByEmployee)
		assignments.GET("/employee/:employeeId/current", middleware.SelfOrRBAC(rbacService, "employeeId", "employee_scheme", "manage"), handler.GetCurrent)
		assignments.GET("/:id", read, handler.GetByID)
		assignments.POST("", manage, handler.Assign)
		assignments.PATCH("/:id", manage, handler.Update)
		assignments.DELETE("/:id", manage, handler.Delete)
	}
}
