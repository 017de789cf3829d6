package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hris-leave/internal/domain"
	rbacerrors "go-hris-leave/internal/rbac/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	Service
	grantErr error
}

func (s *stubService) Enforce(req domain.EnforceRequest) (bool, error) {
	return req.Role == domain.RoleHR && req.Resource == "employee" && req.Action == "read", nil
}

func (s *stubService) Grant(_ context.Context, req GrantRequest) (PermissionResponse, error) {
	if s.grantErr != nil {
		return PermissionResponse{}, s.grantErr
	}
	return PermissionResponse{ID: "p-1", Role: req.Role, Resource: req.Resource, Action: req.Action}, nil
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/rbac/enforce", h.Enforce)
	r.POST("/rbac/permissions", h.Grant)
	return r
}

func TestRBACHandler_Enforce(t *testing.T) {
	r := setupRouter(&stubService{})

	body, _ := json.Marshal(domain.EnforceRequest{Role: "HR", Resource: "employee", Action: "read"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allowed":true`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"role":"HR"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRBACHandler_Grant(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		r := setupRouter(&stubService{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/rbac/permissions", bytes.NewBufferString(`{"role":"DM","resource":"global_config","action":"read"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate", func(t *testing.T) {
		r := setupRouter(&stubService{grantErr: rbacerrors.ErrPermissionExists})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/rbac/permissions", bytes.NewBufferString(`{"role":"DM","resource":"global_config","action":"read"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
