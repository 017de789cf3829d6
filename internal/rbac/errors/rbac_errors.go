package rbacerrors

import (
	"net/http"

	"go-hris-leave/internal/shared/apperror"
)

var (
	ErrPermissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"permission not found",
		http.StatusNotFound,
	)
	ErrPermissionExists = apperror.New(
		apperror.CodeConflict,
		"role already has this permission",
		http.StatusConflict,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be one of EMPLOYEE, HR, DM, DIRECTOR",
		http.StatusBadRequest,
	)
	ErrInvalidPermissionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid permission id",
		http.StatusBadRequest,
	)
)
