package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hris-leave/internal/leave"
	leaveerrors "go-hris-leave/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveService struct {
	leave.Service
	CreateFn       func(ctx context.Context, actor leave.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	GetAllFn       func(ctx context.Context, status string) ([]leave.LeaveResponse, error)
	UpdateStatusFn func(ctx context.Context, actor leave.Actor, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error)
	CancelFn       func(ctx context.Context, actor leave.Actor, id string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, actor leave.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.CreateFn(ctx, actor, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, status string) ([]leave.LeaveResponse, error) {
	return f.GetAllFn(ctx, status)
}
func (f *fakeLeaveService) UpdateStatus(ctx context.Context, actor leave.Actor, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
	return f.UpdateStatusFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actor leave.Actor, id string) (leave.LeaveResponse, error) {
	return f.CancelFn(ctx, actor, id)
}

func setupRouter(userID, employeeID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		c.Next()
	})
	return r
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("passes actor from context", func(t *testing.T) {
		svc := &fakeLeaveService{
			CreateFn: func(_ context.Context, actor leave.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "u-1", actor.UserID)
				assert.Equal(t, "e-1", actor.EmployeeID)
				return leave.LeaveResponse{ID: "l-1", Status: leave.StatusPending, WorkingDays: 3}, nil
			},
		}
		r := setupRouter("u-1", "e-1")
		r.POST("/leave-applications", leave.NewHandler(svc).Create)

		body := `{"leave_type_id":"6f1c1d5e-2b7e-4e32-9a53-5d8a5c1f0a11","start_date":"2026-03-02","end_date":"2026-03-04"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-applications", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"working_days":3`)
	})

	t.Run("missing leave type", func(t *testing.T) {
		r := setupRouter("u-1", "")
		r.POST("/leave-applications", leave.NewHandler(&fakeLeaveService{}).Create)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-applications", strings.NewReader(`{"start_date":"2026-03-02","end_date":"2026-03-04"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("overlap maps to conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			CreateFn: func(context.Context, leave.Actor, leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		r := setupRouter("u-1", "e-1")
		r.POST("/leave-applications", leave.NewHandler(svc).Create)

		body := `{"leave_type_id":"6f1c1d5e-2b7e-4e32-9a53-5d8a5c1f0a11","start_date":"2026-03-02","end_date":"2026-03-04"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-applications", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	svc := &fakeLeaveService{
		GetAllFn: func(_ context.Context, status string) ([]leave.LeaveResponse, error) {
			assert.Equal(t, "pending", status)
			return []leave.LeaveResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		},
	}
	r := setupRouter("u-1", "")
	r.GET("/leave-applications", leave.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-applications?status=pending&page=2&page_size=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var items []leave.LeaveResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ID)
	assert.Contains(t, string(env.Meta), `"total":3`)
}

func TestLeaveHandler_UpdateStatus(t *testing.T) {
	t.Run("invalid transition", func(t *testing.T) {
		svc := &fakeLeaveService{
			UpdateStatusFn: func(_ context.Context, _ leave.Actor, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "l-1", id)
				assert.Equal(t, "rejected", req.Status)
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
			},
		}
		r := setupRouter("u-1", "")
		r.PATCH("/leave-applications/:id/status", leave.NewHandler(svc).UpdateStatus)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/leave-applications/l-1/status", strings.NewReader(`{"status":"rejected"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid leave status transition")
	})

	t.Run("status required", func(t *testing.T) {
		r := setupRouter("u-1", "")
		r.PATCH("/leave-applications/:id/status", leave.NewHandler(&fakeLeaveService{}).UpdateStatus)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/leave-applications/l-1/status", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	svc := &fakeLeaveService{
		CancelFn: func(_ context.Context, actor leave.Actor, id string) (leave.LeaveResponse, error) {
			assert.Equal(t, "u-9", actor.UserID)
			return leave.LeaveResponse{ID: id, Status: leave.StatusCancelled}, nil
		},
	}
	r := setupRouter("u-9", "")
	r.PATCH("/leave-applications/:id/cancel", leave.NewHandler(svc).Cancel)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/leave-applications/l-7/cancel", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
}
