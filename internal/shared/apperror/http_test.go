package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-hris-leave/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "leave type code already exists", http.StatusConflict)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "leave type code already exists", got.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", apperror.ErrNotFound)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestMapValidationError(t *testing.T) {
	type payload struct {
		LeaveTypeID string `json:"leave_type_id" validate:"required"`
	}

	v := validator.New()
	err := v.Struct(payload{})

	mapped := apperror.MapValidationError(err)

	got := apperror.ToHTTP(mapped)
	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Equal(t, apperror.CodeInvalidInput, got.Code)
	assert.Contains(t, got.Message, "is required")
}

func TestToHTTP_Details(t *testing.T) {
	err := apperror.New("POPULATE_FAILED", "leave balance population failed", http.StatusInternalServerError)
	err.Details = map[string]int{"created": 3}

	got := apperror.ToHTTP(err)

	assert.Equal(t, "POPULATE_FAILED", got.Code)
	assert.Equal(t, map[string]int{"created": 3}, got.Details)
}

func TestMapValidationError_Tags(t *testing.T) {
	type payload struct {
		Code       string `validate:"max=3"`
		Email      string `validate:"email"`
		SchemeID   string `validate:"uuid"`
		StartsOn   string `validate:"datetime=2006-01-02"`
		LeaveKind  string `validate:"oneof=A B"`
		TotalLimit int    `validate:"min=1"`
	}

	cases := map[string]struct {
		in   payload
		want string
	}{
		"max":      {payload{Code: "LONG", Email: "a@b.co", SchemeID: "8f8b2a36-6a7e-4c1e-9e3b-0c4d1c2b9a11", StartsOn: "2025-01-01", LeaveKind: "A", TotalLimit: 1}, "at most 3"},
		"email":    {payload{Code: "AL", Email: "nope", SchemeID: "8f8b2a36-6a7e-4c1e-9e3b-0c4d1c2b9a11", StartsOn: "2025-01-01", LeaveKind: "A", TotalLimit: 1}, "valid email"},
		"datetime": {payload{Code: "AL", Email: "a@b.co", SchemeID: "8f8b2a36-6a7e-4c1e-9e3b-0c4d1c2b9a11", StartsOn: "01/01/2025", LeaveKind: "A", TotalLimit: 1}, "YYYY-MM-DD"},
		"min":      {payload{Code: "AL", Email: "a@b.co", SchemeID: "8f8b2a36-6a7e-4c1e-9e3b-0c4d1c2b9a11", StartsOn: "2025-01-01", LeaveKind: "A"}, "at least 1"},
	}

	v := validator.New()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := apperror.ToHTTP(apperror.MapValidationError(v.Struct(tc.in)))
			assert.Equal(t, http.StatusBadRequest, got.Status)
			assert.Contains(t, got.Message, tc.want)
		})
	}
}
