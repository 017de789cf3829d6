package leavescheme

import "github.com/shopspring/decimal"

type SchemeLeaveTypeInput struct {
	LeaveTypeID string          `json:"leave_type_id" binding:"required,uuid"`
	DaysAllowed decimal.Decimal `json:"days_allowed"`
	IsPaid      *bool           `json:"is_paid"`
}

type CreateLeaveSchemeRequest struct {
	Name        string                 `json:"name" binding:"required,notblank,max=100"`
	Description string                 `json:"description"`
	IsActive    *bool                  `json:"is_active"`
	LeaveTypes  []SchemeLeaveTypeInput `json:"leave_types" binding:"omitempty,dive"`
}

type UpdateLeaveSchemeRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateSchemeLeaveTypeRequest struct {
	DaysAllowed *decimal.Decimal `json:"days_allowed"`
	IsPaid      *bool            `json:"is_paid"`
}

type SchemeLeaveTypeResponse struct {
	ID            string          `json:"id"`
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name,omitempty"`
	LeaveTypeCode string          `json:"leave_type_code,omitempty"`
	DaysAllowed   decimal.Decimal `json:"days_allowed"`
	IsPaid        *bool           `json:"is_paid"`
	EffectivePaid bool            `json:"effective_is_paid"`
}

type LeaveSchemeResponse struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	IsActive    bool                      `json:"is_active"`
	CreatedBy   *string                   `json:"created_by,omitempty"`
	UpdatedBy   *string                   `json:"updated_by,omitempty"`
	LeaveTypes  []SchemeLeaveTypeResponse `json:"leave_types"`
	CreatedAt   string                    `json:"created_at"`
	UpdatedAt   string                    `json:"updated_at"`
}
