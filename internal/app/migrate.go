package app

import (
	"context"
	"fmt"

	"go-hris-leave/internal/auth"
	"go-hris-leave/internal/config"
	"go-hris-leave/internal/employee"
	"go-hris-leave/internal/employeescheme"
	"go-hris-leave/internal/globalconfig"
	"go-hris-leave/internal/leave"
	"go-hris-leave/internal/leavebalance"
	"go-hris-leave/internal/leavescheme"
	"go-hris-leave/internal/leavetype"
	"go-hris-leave/internal/messaging/kafka"
	"go-hris-leave/internal/rbac"
	"go-hris-leave/internal/shared/connection"
	"go-hris-leave/internal/shared/counter"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tables that carry an updated_at column maintained by the set_updated_at trigger.
var touchedTables = []string{
	"users",
	"employees",
	"leave_types",
	"leave_schemes",
	"scheme_leave_types",
	"employee_leave_schemes",
	"leave_balances",
	"leave_applications",
	"global_leave_configs",
	"outbox_events",
}

const setUpdatedAtFunc = `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql`

// RunMigrate brings the schema up to date and seeds the default role grants.
func RunMigrate(cfg config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return Migrate(context.Background(), gormDB)
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	logger := zap.L().Named("app.migrate")
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&auth.User{},
		&employee.Employee{},
		&leavetype.LeaveType{},
		&leavescheme.LeaveScheme{},
		&leavescheme.SchemeLeaveType{},
		&employeescheme.EmployeeLeaveScheme{},
		&leavebalance.LeaveBalance{},
		&leave.LeaveApplication{},
		&globalconfig.GlobalLeaveConfig{},
		&rbac.RolePermission{},
		&kafka.OutboxRecord{},
		&counter.Counter{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("schema migrated")

	if db.Dialector.Name() == "postgres" {
		if err := installUpdatedAtTriggers(db); err != nil {
			return err
		}
	}

	if err := rbac.NewRepository(db).Seed(ctx, rbac.DefaultPolicies()); err != nil {
		return fmt.Errorf("seed role permissions: %w", err)
	}
	logger.Info("default role permissions seeded")

	return nil
}

func installUpdatedAtTriggers(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(setUpdatedAtFunc).Error; err != nil {
			return fmt.Errorf("create set_updated_at: %w", err)
		}
		for _, table := range touchedTables {
			trigger := "trg_" + table + "_updated_at"
			if err := tx.Exec(fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s", trigger, table)).Error; err != nil {
				return fmt.Errorf("drop trigger %s: %w", trigger, err)
			}
			stmt := fmt.Sprintf(
				"CREATE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION set_updated_at()",
				trigger, table,
			)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create trigger %s: %w", trigger, err)
			}
		}
		return nil
	})
}
