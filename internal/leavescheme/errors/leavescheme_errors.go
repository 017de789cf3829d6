package leaveschemeerrors

import (
	"net/http"

	"go-hris-leave/internal/shared/apperror"
)

var (
	ErrLeaveSchemeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave scheme not found",
		http.StatusNotFound,
	)
	ErrLeaveSchemeNameExists = apperror.New(
		apperror.CodeConflict,
		"leave scheme name already exists",
		http.StatusConflict,
	)
	ErrLeaveSchemeAssigned = apperror.New(
		apperror.CodeConflict,
		"leave scheme is assigned to employees",
		http.StatusConflict,
	)
	ErrInvalidLeaveSchemeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave scheme id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrEmptyName = apperror.New(
		apperror.CodeInvalidInput,
		"name must not be empty",
		http.StatusBadRequest,
	)
	ErrInvalidDaysAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"days_allowed must not be negative",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrSchemeLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type is not part of this scheme",
		http.StatusNotFound,
	)
	ErrSchemeLeaveTypeExists = apperror.New(
		apperror.CodeConflict,
		"leave type already exists in this scheme",
		http.StatusConflict,
	)
)
