package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

type LeaveRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveID     string    `json:"leave_id"`
	RequesterID string    `json:"requester_id"`
	LeaveTypeID string    `json:"leave_type_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	TotalDays   int       `json:"total_days"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type LeaveReviewedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveID     string    `json:"leave_id"`
	RequesterID string    `json:"requester_id"`
	ReviewerID  string    `json:"reviewer_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
