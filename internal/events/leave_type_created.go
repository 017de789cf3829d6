package events

import "time"

const LeaveTypeTopic = "hr.leave.type.v1"

type LeaveTypeCreatedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveTypeID string    `json:"leave_type_id"`
	Code        string    `json:"code"`
	MaxDays     string    `json:"max_days"`
	OccurredAt  time.Time `json:"occurred_at"`
}
