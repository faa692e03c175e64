package leave

type CreateLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"required,max=1000"`
}

type ReviewLeaveRequest struct {
	Status  string `json:"status" binding:"required,oneof=approved rejected"`
	Comment string `json:"comment" binding:"max=1000"`
}

// ListFilter holds the explicit filters every list endpoint accepts. Role
// scoping is layered on top by the service, never by the caller.
type ListFilter struct {
	Status       string
	LeaveTypeID  string
	DepartmentID string
	From         string
	To           string
	Page         int
	Limit        int
}

type LeavePersonResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

type LeaveResponse struct {
	ID            string               `json:"id"`
	RequesterID   string               `json:"requester_id"`
	LeaveTypeID   string               `json:"leave_type_id"`
	LeaveTypeName string               `json:"leave_type_name,omitempty"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	TotalDays     int                  `json:"total_days"`
	Reason        string               `json:"reason"`
	Status        string               `json:"status"`
	ReviewerID    *string              `json:"reviewer_id,omitempty"`
	ReviewComment *string              `json:"review_comment,omitempty"`
	ReviewedAt    *string              `json:"reviewed_at,omitempty"`
	CreatedAt     string               `json:"created_at"`
	Requester     *LeavePersonResponse `json:"requester,omitempty"`
	Reviewer      *LeavePersonResponse `json:"reviewer,omitempty"`
}
