package globalconfig

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	cfg := r.Group("/global-config")
	{
		cfg.GET("", middleware.RBACAuthorize(rbacService, "global_config", "read"), handler.GetAll)
		cfg.GET("/key/:key", middleware.RBACAuthorize(rbacService, "global_config", "read"), handler.GetByKey)
		cfg.GET("/:id", middleware.RBACAuthorize(rbacService, "global_config", "read"), handler.GetByID)
		cfg.POST("", middleware.RBACAuthorize(rbacService, "global_config", "manage"), handler.Create)
		cfg.PATCH("/:id", middleware.RBACAuthorize(rbacService, "global_config", "manage"), handler.Update)
		cfg.DELETE("/:id", middleware.RBACAuthorize(rbacService, "global_config", "manage"), handler.Delete)
	}
}
