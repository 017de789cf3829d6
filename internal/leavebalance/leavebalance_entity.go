package leavebalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveBalance struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type_year,priority:1"`
	LeaveTypeID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type_year,priority:2;index"`
	Year          int             `gorm:"not null;uniqueIndex:uq_leave_balance_employee_type_year,priority:3;index"`
	AllocatedDays decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	UsedDays      decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (LeaveBalance) TableName() string { return "leave_balances" }

// RemainingDays is allocated minus used. It can be negative when an
// allocation is lowered below what was already consumed.
func (b LeaveBalance) RemainingDays() decimal.Decimal {
	return b.AllocatedDays.Sub(b.UsedDays)
}

// BalanceWithType is a ledger row joined with its leave type name.
type BalanceWithType struct {
	LeaveBalance
	LeaveTypeName string
}

// ActiveLeaveType is the slice of a leave type that populate needs.
type ActiveLeaveType struct {
	ID      uuid.UUID
	Name    string
	MaxDays decimal.Decimal
}

// PopulateResult reports how a populate run went. On failure the counts
// are the ones accumulated before the rollback.
type PopulateResult struct {
	Success bool     `json:"success"`
	Year    int      `json:"year"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// TypeStats aggregates the ledger for one leave type in a year.
type TypeStats struct {
	LeaveTypeID    string          `json:"leave_type_id"`
	LeaveTypeName  string          `json:"leave_type_name"`
	Employees      int64           `json:"employees"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	TotalUsed      decimal.Decimal `json:"total_used"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}
