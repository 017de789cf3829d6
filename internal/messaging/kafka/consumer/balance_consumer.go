package consumer

import (
	"context"
	"time"

	"go-hris-leave/internal/events"
	"go-hris-leave/internal/leavebalance"

	"go.uber.org/zap"
)

// BalancePopulator is the slice of leavebalance.Service the consumers drive.
type BalancePopulator interface {
	PopulateForType(ctx context.Context, leaveTypeID string, year int) (leavebalance.PopulateResult, error)
	PopulateForEmployee(ctx context.Context, employeeID string, year int) (leavebalance.PopulateResult, error)
}

// ConsumeLeaveTypeCreated gives every active employee a ledger row for a new
// leave type in the current year.
func ConsumeLeaveTypeCreated(ctx context.Context, reader MessageReader, balances BalancePopulator, logger *zap.Logger) {
	log := logger.Named("kafka.consumer.leave_type_created")
	run(ctx, reader, log, func(ctx context.Context, event events.LeaveTypeCreatedEvent) error {
		year := time.Now().UTC().Year()
		res, err := balances.PopulateForType(ctx, event.LeaveTypeID, year)
		if err != nil {
			return err
		}
		log.Info("balances populated for leave type",
			zap.String("request_id", event.RequestID),
			zap.String("leave_type_id", event.LeaveTypeID),
			zap.Int("year", year),
			zap.Int("created", res.Created),
			zap.Int("skipped", res.Skipped),
		)
		return nil
	})
}

// ConsumeEmployeeCreated gives a new employee a ledger row for every active
// leave type in the current year.
func ConsumeEmployeeCreated(ctx context.Context, reader MessageReader, balances BalancePopulator, logger *zap.Logger) {
	log := logger.Named("kafka.consumer.employee_created")
	run(ctx, reader, log, func(ctx context.Context, event events.EmployeeCreatedEvent) error {
		year := time.Now().UTC().Year()
		res, err := balances.PopulateForEmployee(ctx, event.EmployeeID, year)
		if err != nil {
			return err
		}
		log.Info("balances populated for employee",
			zap.String("request_id", event.RequestID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("employee_number", event.EmployeeNumber),
			zap.Int("year", year),
			zap.Int("created", res.Created),
			zap.Int("skipped", res.Skipped),
		)
		return nil
	})
}
