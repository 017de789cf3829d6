package leave

import (
	"time"

	"go-hris-leave/internal/leavetype"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type LeaveApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate   time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	WorkingDays int       `gorm:"type:int;not null"`
	Reason      string    `gorm:"type:text"`

	Status     string     `gorm:"type:varchar(20);not null;index:idx_leave_applications_status"`
	Comments   *string    `gorm:"type:text"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID;constraint:OnDelete:RESTRICT"`
}

func (LeaveApplication) TableName() string { return "leave_applications" }

// BalanceYear is the ledger year an application draws from.
func (l LeaveApplication) BalanceYear() int {
	return l.StartDate.Year()
}
