package employeescheme

import (
	"time"

	"go-hris-leave/internal/leavescheme"

	"github.com/google/uuid"
)

// EmployeeLeaveScheme binds an employee to a scheme for a date range. A nil
// EffectiveTo means the assignment has no end.
type EmployeeLeaveScheme struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_employee_leave_schemes_employee"`
	SchemeID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Scheme *leavescheme.LeaveScheme `gorm:"foreignKey:SchemeID;constraint:OnDelete:RESTRICT"`
}

func (EmployeeLeaveScheme) TableName() string { return "employee_leave_schemes" }

// Interval is a closed date range with an optional end.
type Interval struct {
	From time.Time
	To   *time.Time
}

func (a EmployeeLeaveScheme) Interval() Interval {
	return Interval{From: a.EffectiveFrom, To: a.EffectiveTo}
}
