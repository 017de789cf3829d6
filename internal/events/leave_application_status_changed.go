package events

import "time"

const LeaveApplicationTopic = "hr.leave.application.v1"

// LeaveApplicationStatusChangedEvent is emitted on create and on every
// status transition. FromStatus is empty for a new application.
type LeaveApplicationStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	ApplicationID string    `json:"application_id"`
	EmployeeID    string    `json:"employee_id"`
	LeaveTypeID   string    `json:"leave_type_id"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status"`
	WorkingDays   int       `json:"working_days"`
	ActorID       string    `json:"actor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
