package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// leave_type_id -> Leave Type Id
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first binding failure into a readable AppError.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	e := errs[0]
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required", "notblank":
		return RequiredField(field)
	case "min":
		return fieldError("%s must be at least %s", field, e.Param())
	case "max":
		return fieldError("%s must be at most %s", field, e.Param())
	case "email":
		return fieldError("%s must be a valid email address", field)
	case "uuid":
		return fieldError("%s must be a valid UUID", field)
	case "datetime":
		return fieldError("%s must be a date in YYYY-MM-DD format", field)
	case "oneof":
		return fieldError("%s must be one of %s", field, e.Param())
	default:
		return InvalidField(field)
	}
}

func fieldError(format string, args ...any) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf(format, args...), http.StatusBadRequest)
}
