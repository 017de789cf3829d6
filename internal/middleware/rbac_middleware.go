package middleware

import (
	"net/http"

	"go-hris-leave/internal/domain"
	"go-hris-leave/internal/shared/apperror"
	"go-hris-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorize(c, service, resource, action) {
			return
		}
		c.Next()
	}
}

// SelfOrRBAC lets callers read their own employee scoped data. Anyone else
// needs resource:action.
func SelfOrRBAC(service RBACService, param, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString("employee_id")
		if employeeID != "" && c.Param(param) == employeeID {
			c.Next()
			return
		}
		if !authorize(c, service, resource, action) {
			return
		}
		c.Next()
	}
}

func authorize(c *gin.Context, service RBACService, resource, action string) bool {
	role := c.GetString("role")
	if role == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
		c.Abort()
		return false
	}

	allowed, err := service.Enforce(domain.EnforceRequest{
		Role:     role,
		Resource: resource,
		Action:   action,
	})
	if err != nil {
		zap.L().Named("middleware.rbac").Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		c.Abort()
		return false
	}

	if !allowed {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
			"You do not have permission to access this resource",
			gin.H{"required": resource + ":" + action},
		)
		c.Abort()
		return false
	}
	return true
}
