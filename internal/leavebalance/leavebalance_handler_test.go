package leavebalance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-hris-leave/internal/leavebalance"
	leavebalanceerrors "go-hris-leave/internal/leavebalance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

// stubService embeds the interface so tests only stub what they call.
type stubService struct {
	leavebalance.Service
	getByEmployeeFn   func(ctx context.Context, employeeID string, year int) ([]leavebalance.EmployeeBalanceResponse, error)
	populateForYearFn func(ctx context.Context, year int) (leavebalance.PopulateResult, error)
	updateUsedDaysFn  func(ctx context.Context, id string, delta decimal.Decimal) (leavebalance.LeaveBalanceResponse, error)
	statsFn           func(ctx context.Context, year int) (leavebalance.StatsResponse, error)
}

func (s *stubService) GetByEmployee(ctx context.Context, employeeID string, year int) ([]leavebalance.EmployeeBalanceResponse, error) {
	return s.getByEmployeeFn(ctx, employeeID, year)
}

func (s *stubService) PopulateForYear(ctx context.Context, year int) (leavebalance.PopulateResult, error) {
	return s.populateForYearFn(ctx, year)
}

func (s *stubService) UpdateUsedDays(ctx context.Context, id string, delta decimal.Decimal) (leavebalance.LeaveBalanceResponse, error) {
	return s.updateUsedDaysFn(ctx, id, delta)
}

func (s *stubService) Stats(ctx context.Context, year int) (leavebalance.StatsResponse, error) {
	return s.statsFn(ctx, year)
}

func newRouter(svc leavebalance.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := leavebalance.NewHandler(svc, nil)
	r := gin.New()
	r.GET("/leave-balances/employee/:employeeId", h.GetByEmployee)
	r.GET("/leave-balances/status/:year", h.Stats)
	r.POST("/leave-balances/populate", h.PopulateForYear)
	r.PATCH("/leave-balances/:id/used-days", h.UpdateUsedDays)
	return r
}

func TestHandler_GetByEmployee_DefaultsToCurrentYear(t *testing.T) {
	employeeID := uuid.NewString()
	var gotYear int
	svc := &stubService{
		getByEmployeeFn: func(_ context.Context, id string, year int) ([]leavebalance.EmployeeBalanceResponse, error) {
			assert.Equal(t, employeeID, id)
			gotYear = year
			return []leavebalance.EmployeeBalanceResponse{}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leave-balances/employee/"+employeeID, nil)
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Now().UTC().Year(), gotYear)
}

func TestHandler_GetByEmployee_InvalidYear(t *testing.T) {
	svc := &stubService{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leave-balances/employee/"+uuid.NewString()+"?year=abc", nil)
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "invalid year", env.Error.Message)
}

func TestHandler_PopulateForYear(t *testing.T) {
	t.Run("success returns counts", func(t *testing.T) {
		svc := &stubService{
			populateForYearFn: func(_ context.Context, year int) (leavebalance.PopulateResult, error) {
				assert.Equal(t, 2025, year)
				return leavebalance.PopulateResult{Success: true, Year: year, Created: 6, Skipped: 2, Errors: []string{}}, nil
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-balances/populate?year=2025", nil)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var result leavebalance.PopulateResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, 6, result.Created)
		assert.Equal(t, 2, result.Skipped)
	})

	t.Run("rolled back run carries partial result", func(t *testing.T) {
		partial := leavebalance.PopulateResult{Year: 2025, Created: 1, Errors: []string{"boom"}}
		svc := &stubService{
			populateForYearFn: func(context.Context, int) (leavebalance.PopulateResult, error) {
				return partial, leavebalanceerrors.NewPopulateFailed(partial)
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-balances/populate?year=2025", nil)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "POPULATE_FAILED", env.Error.Code)
		var details leavebalance.PopulateResult
		require.NoError(t, json.Unmarshal(env.Error.Details, &details))
		assert.False(t, details.Success)
		assert.Equal(t, 1, details.Created)
	})
}

func TestHandler_UpdateUsedDays(t *testing.T) {
	svc := &stubService{
		updateUsedDaysFn: func(_ context.Context, _ string, delta decimal.Decimal) (leavebalance.LeaveBalanceResponse, error) {
			assert.True(t, decimal.NewFromInt(5).Equal(delta))
			return leavebalance.LeaveBalanceResponse{}, leavebalanceerrors.ErrUsedDaysExceedAllocated
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/leave-balances/"+uuid.NewString()+"/used-days", strings.NewReader(`{"delta":5}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Stats(t *testing.T) {
	svc := &stubService{
		statsFn: func(_ context.Context, year int) (leavebalance.StatsResponse, error) {
			return leavebalance.StatsResponse{Year: year, Types: []leavebalance.TypeStats{}}, nil
		},
	}

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-balances/status/2024", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-balances/status/next", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
