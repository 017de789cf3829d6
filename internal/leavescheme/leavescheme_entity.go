package leavescheme

import (
	"time"

	"go-hris-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveScheme struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_scheme_name"`
	Description string     `gorm:"type:text"`
	IsActive    bool       `gorm:"not null"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	LeaveTypes []SchemeLeaveType `gorm:"foreignKey:SchemeID;constraint:OnDelete:CASCADE"`
}

func (LeaveScheme) TableName() string { return "leave_schemes" }

// SchemeLeaveType is one leave type allowance inside a scheme. A nil IsPaid
// falls back to the leave type's own flag.
type SchemeLeaveType struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SchemeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_scheme_leave_type,priority:1"`
	LeaveTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_scheme_leave_type,priority:2;index"`
	DaysAllowed decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	IsPaid      *bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID;constraint:OnDelete:RESTRICT"`
}

func (SchemeLeaveType) TableName() string { return "scheme_leave_types" }

// EffectiveIsPaid resolves the override against the leave type default.
func (s SchemeLeaveType) EffectiveIsPaid() bool {
	if s.IsPaid != nil {
		return *s.IsPaid
	}
	if s.LeaveType != nil {
		return s.LeaveType.IsPaid
	}
	return false
}
