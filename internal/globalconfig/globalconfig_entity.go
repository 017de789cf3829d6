package globalconfig

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GlobalLeaveConfig struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Key         string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_global_leave_config_key"`
	Value       json.RawMessage `gorm:"type:jsonb;not null"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (GlobalLeaveConfig) TableName() string { return "global_leave_configs" }

// LeaveAllocation is one entry of the per-year allocation mirror.
type LeaveAllocation struct {
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name"`
	MaxDays       decimal.Decimal `json:"max_days"`
}

// LeaveConfigValue is the JSON stored under LeaveConfigKey(year).
type LeaveConfigValue struct {
	Year        int               `json:"year"`
	Allocations []LeaveAllocation `json:"allocations"`
}

func LeaveConfigKey(year int) string {
	return fmt.Sprintf("leave_config_%d", year)
}
