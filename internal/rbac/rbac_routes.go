package rbac

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	manage := middleware.RBACAuthorize(service, "rbac", "manage")

	group := r.Group("/rbac")
	{
		group.POST("/enforce", manage, handler.Enforce)
		group.GET("/permissions", manage, handler.ListPermissions)
		group.POST("/permissions", manage, handler.Grant)
		group.DELETE("/permissions/:id", manage, handler.Revoke)
	}
}
