package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveType struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Code        string          `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_type_code"`
	Description string          `gorm:"type:text"`
	IsPaid      bool            `gorm:"not null"`
	MaxDays     decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	IsActive    bool            `gorm:"not null;index:idx_leave_types_active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LeaveType) TableName() string { return "leave_types" }
