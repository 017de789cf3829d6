package leavebalance

import "github.com/shopspring/decimal"

type CreateLeaveBalanceRequest struct {
	EmployeeID    string           `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID   string           `json:"leave_type_id" binding:"required,uuid"`
	Year          int              `json:"year" binding:"required,min=1900,max=9999"`
	AllocatedDays decimal.Decimal  `json:"allocated_days"`
	UsedDays      *decimal.Decimal `json:"used_days"`
}

type UpdateLeaveBalanceRequest struct {
	AllocatedDays *decimal.Decimal `json:"allocated_days"`
	UsedDays      *decimal.Decimal `json:"used_days"`
}

type UpdateUsedDaysRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

type LeaveBalanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	LeaveTypeID   string          `json:"leave_type_id"`
	Year          int             `json:"year"`
	AllocatedDays decimal.Decimal `json:"allocated_days"`
	UsedDays      decimal.Decimal `json:"used_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// EmployeeBalanceResponse is the per-employee view with display data.
type EmployeeBalanceResponse struct {
	LeaveBalanceResponse
	LeaveTypeName string `json:"leave_type_name"`
	Color         string `json:"color"`
}

type StatsResponse struct {
	Year  int         `json:"year"`
	Types []TypeStats `json:"types"`
}
