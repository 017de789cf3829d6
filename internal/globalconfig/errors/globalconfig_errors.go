package globalconfigerrors

import (
	"net/http"

	"go-hris-leave/internal/shared/apperror"
)

var (
	ErrConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"global leave config not found",
		http.StatusNotFound,
	)
	ErrConfigKeyExists = apperror.New(
		apperror.CodeConflict,
		"global leave config key already exists",
		http.StatusConflict,
	)
	ErrInvalidConfigID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid global leave config id",
		http.StatusBadRequest,
	)
	ErrInvalidValue = apperror.New(
		apperror.CodeInvalidInput,
		"value must be valid JSON",
		http.StatusBadRequest,
	)
)
