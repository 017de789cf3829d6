package globalconfig

import (
	"errors"
	"strings"

	globalconfigerrors "go-hris-leave/internal/globalconfig/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return globalconfigerrors.ErrConfigNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_global_leave_config_key" {
		return globalconfigerrors.ErrConfigKeyExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint") && strings.Contains(errMsg, "global_leave_configs.key") {
		return globalconfigerrors.ErrConfigKeyExists
	}

	return err
}
