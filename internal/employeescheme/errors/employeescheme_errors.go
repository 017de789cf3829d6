package employeeschemeerrors

import (
	"net/http"

	"go-hris-leave/internal/shared/apperror"
)

var (
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee leave scheme not found",
		http.StatusNotFound,
	)
	ErrNoCurrentScheme = apperror.New(
		apperror.CodeNotFound,
		"no leave scheme assigned for the given date",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrSchemeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave scheme not found",
		http.StatusNotFound,
	)
	ErrInvalidAssignmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee leave scheme id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidSchemeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave scheme id",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_from must not be after effective_to",
		http.StatusBadRequest,
	)
	ErrOverlappingAssignment = apperror.New(
		apperror.CodeInvalidInput,
		"employee already has a leave scheme in this period",
		http.StatusBadRequest,
	)
)
