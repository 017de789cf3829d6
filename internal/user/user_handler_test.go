package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hris-leave/internal/user"
	usererrors "go-hris-leave/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	user.Service
	GetAllFn         func(ctx context.Context) ([]user.UserResponse, error)
	ToggleStatusFn   func(ctx context.Context, actorID, id string, isActive bool) (user.UserResponse, error)
	ChangePasswordFn func(ctx context.Context, userID, current, next string) error
}

func (f *fakeUserService) GetAll(ctx context.Context) ([]user.UserResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeUserService) ToggleStatus(ctx context.Context, actorID, id string, isActive bool) (user.UserResponse, error) {
	return f.ToggleStatusFn(ctx, actorID, id, isActive)
}
func (f *fakeUserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return f.ChangePasswordFn(ctx, userID, current, next)
}

func setupRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	return r
}

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
	} `json:"meta"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestUserHandler_GetAll_FilterAndPaginate(t *testing.T) {
	svc := &fakeUserService{
		GetAllFn: func(context.Context) ([]user.UserResponse, error) {
			return []user.UserResponse{
				{ID: "1", Email: "carol@mail.com", Role: "HR"},
				{ID: "2", Email: "alice@mail.com", Role: "EMPLOYEE"},
				{ID: "3", Email: "bob@mail.com", Role: "HR"},
			}, nil
		},
	}
	r := setupRouter("u-1")
	r.GET("/users", user.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?role=hr&page_size=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(2), env.Meta.Total)

	var data []user.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "bob@mail.com", data[0].Email)
}

func TestUserHandler_ToggleStatus(t *testing.T) {
	t.Run("requires is_active", func(t *testing.T) {
		r := setupRouter("u-1")
		r.PATCH("/users/:id/status", user.NewHandler(&fakeUserService{}).ToggleStatus)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/users/u-2/status", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("self change maps to 400", func(t *testing.T) {
		svc := &fakeUserService{
			ToggleStatusFn: func(_ context.Context, actorID, id string, isActive bool) (user.UserResponse, error) {
				assert.Equal(t, "u-1", actorID)
				assert.False(t, isActive)
				return user.UserResponse{}, usererrors.ErrCannotChangeSelf
			},
		}
		r := setupRouter("u-1")
		r.PATCH("/users/:id/status", user.NewHandler(svc).ToggleStatus)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/users/u-1/status", strings.NewReader(`{"is_active":false}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestUserHandler_ChangePassword(t *testing.T) {
	svc := &fakeUserService{
		ChangePasswordFn: func(_ context.Context, userID, current, next string) error {
			assert.Equal(t, "u-1", userID)
			assert.Equal(t, "oldpassword", current)
			assert.Equal(t, "newpassword", next)
			return nil
		},
	}
	r := setupRouter("u-1")
	r.PATCH("/users/me/password", user.NewHandler(svc).ChangePassword)

	w := httptest.NewRecorder()
	body := `{"current_password":"oldpassword","new_password":"newpassword"}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/users/me/password", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
}
