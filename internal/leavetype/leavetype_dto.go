package leavetype

import "github.com/shopspring/decimal"

type CreateLeaveTypeRequest struct {
	Name        string          `json:"name" binding:"required,notblank,max=100"`
	Code        string          `json:"code" binding:"required,notblank,max=30"`
	Description string          `json:"description"`
	IsPaid      *bool           `json:"is_paid"`
	MaxDays     decimal.Decimal `json:"max_days"`
	IsActive    *bool           `json:"is_active"`
}

type UpdateLeaveTypeRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Code        *string          `json:"code" binding:"omitempty,max=30"`
	Description *string          `json:"description"`
	IsPaid      *bool            `json:"is_paid"`
	MaxDays     *decimal.Decimal `json:"max_days"`
	IsActive    *bool            `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	IsPaid      bool            `json:"is_paid"`
	MaxDays     decimal.Decimal `json:"max_days"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type DeleteLeaveTypeResponse struct {
	Deleted     bool `json:"deleted"`
	SoftDeleted bool `json:"soft_deleted"`
}
