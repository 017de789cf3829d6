package leavebalance

import (
	"errors"
	"strings"

	leavebalanceerrors "go-hris-leave/internal/leavebalance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavebalanceerrors.ErrLeaveBalanceNotFound
	}
	if isDuplicateKey(err) {
		return leavebalanceerrors.ErrLeaveBalanceExists
	}

	return err
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_balance_employee_type_year"
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") && strings.Contains(errMsg, "leave_balances.")
}
