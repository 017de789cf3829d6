package employeescheme

import (
	"errors"

	employeeschemeerrors "go-hris-leave/internal/employeescheme/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeschemeerrors.ErrAssignmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return employeeschemeerrors.ErrSchemeNotFound
	}

	return err
}
