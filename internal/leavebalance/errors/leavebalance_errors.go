package leavebalanceerrors

import (
	"net/http"

	"go-hris-leave/internal/shared/apperror"
)

var (
	ErrLeaveBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrLeaveBalanceExists = apperror.New(
		apperror.CodeConflict,
		"leave balance already exists for this employee, leave type and year",
		http.StatusConflict,
	)
	ErrInvalidLeaveBalanceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave balance id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrNegativeDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must not be negative",
		http.StatusBadRequest,
	)
	ErrUsedDaysExceedAllocated = apperror.New(
		apperror.CodeConflict,
		"used days would exceed allocated days",
		http.StatusConflict,
	)
	ErrUsedDaysBelowZero = apperror.New(
		apperror.CodeInvalidInput,
		"used days cannot go below zero",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found or inactive",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found or inactive",
		http.StatusNotFound,
	)
)

var errPopulateFailed = apperror.New("POPULATE_FAILED", "leave balance population failed", http.StatusInternalServerError)

// NewPopulateFailed carries the partial result of a rolled back populate run.
func NewPopulateFailed(details any) *apperror.AppError {
	return errPopulateFailed.WithDetails(details)
}
