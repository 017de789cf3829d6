package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hris-leave/internal/domain"
	"go-hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeEnforcer struct {
	allowed map[string]bool
	err     error
	calls   int
}

func (f *fakeEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.allowed[req.Role+":"+req.Resource+":"+req.Action], nil
}

func rbacRouter(role, employeeID string, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("role", role)
		c.Set("employee_id", employeeID)
		c.Next()
	})
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/employees/:employeeId", handlers...)
	return r
}

func TestRBACAuthorize(t *testing.T) {
	enf := &fakeEnforcer{allowed: map[string]bool{"HR:leave_balance:manage": true}}

	cases := []struct {
		name   string
		role   string
		status int
	}{
		{"allowed", "HR", http.StatusNoContent},
		{"denied", "EMPLOYEE", http.StatusForbidden},
		{"no role", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := rbacRouter(tc.role, "", middleware.RBACAuthorize(enf, "leave_balance", "manage"))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/e-1", nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}

	t.Run("enforcer error", func(t *testing.T) {
		r := rbacRouter("HR", "", middleware.RBACAuthorize(&fakeEnforcer{err: errors.New("boom")}, "x", "y"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/e-1", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSelfOrRBAC(t *testing.T) {
	t.Run("own record skips enforcer", func(t *testing.T) {
		enf := &fakeEnforcer{}
		r := rbacRouter("EMPLOYEE", "e-1", middleware.SelfOrRBAC(enf, "employeeId", "leave_application", "read_any"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/e-1", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Zero(t, enf.calls)
	})

	t.Run("other record needs permission", func(t *testing.T) {
		enf := &fakeEnforcer{}
		r := rbacRouter("EMPLOYEE", "e-1", middleware.SelfOrRBAC(enf, "employeeId", "leave_application", "read_any"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/e-2", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("privileged role reads any", func(t *testing.T) {
		enf := &fakeEnforcer{allowed: map[string]bool{"HR:leave_application:read_any": true}}
		r := rbacRouter("HR", "", middleware.SelfOrRBAC(enf, "employeeId", "leave_application", "read_any"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/e-2", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
