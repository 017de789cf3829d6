package leavescheme

import (
	"errors"
	"strings"

	leaveschemeerrors "go-hris-leave/internal/leavescheme/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveschemeerrors.ErrLeaveSchemeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_leave_scheme_name":
			return leaveschemeerrors.ErrLeaveSchemeNameExists
		case "uq_scheme_leave_type":
			return leaveschemeerrors.ErrSchemeLeaveTypeExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint") {
		switch {
		case strings.Contains(errMsg, "leave_schemes.name"):
			return leaveschemeerrors.ErrLeaveSchemeNameExists
		case strings.Contains(errMsg, "scheme_leave_types."):
			return leaveschemeerrors.ErrSchemeLeaveTypeExists
		}
	}

	return err
}
