package leavebalance

import (
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	balances := r.Group("/leave-balances")
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, "leave_balance", "manage"), handler.GetAll)
		balances.GET("/status/:year", middleware.RBACAuthorize(rbacService, "leave_balance", "manage"), handler.Stats)
		balances.GET("/employee/:employeeId",
			middleware.SelfOrRBAC(rbacService, "employeeId", "leave_balance", "manage"),
			handler.GetByEmployee,
		)
		balances.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_balance", "manage"), handler.GetByID)
		balances.POST("", middleware.RBACAuthorize(rbacService, "leave_balance", "manage"), handler.Create)
		balances.POST("/populate",
			middleware.RBACAuthorize(rbacService, "leave_balance", "manage"),
			middleware.RateLimitByUser(0.2, 2),
			middleware.Idempotency(rdb),
			handler.PopulateForYear,
		)
		balances.POST("/populate/:leaveTypeId",
			middleware.RBACAuthorize(rbacService, "leave_balance", "manage"),
			middleware.RateLimitByUser(0.2, 2),
			middleware.Idempotency(rdb),
			handler.PopulateForType,
		)
		balances.PATCH("/:id", middleware.RBACAuthorize(rbacService, "leave_balance", "manage"), handler.Update)
		balances.PATCH("/:id/used-days", middleware.RBACAuthorize(rbacService, "leave_balance", "manage"), handler.UpdateUsedDays)
		balances.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_balance", "manage"), handler.Delete)
	}
}
