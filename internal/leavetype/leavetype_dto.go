package leavetype

type CreateLeaveTypeRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	DefaultDaysPerYear int    `json:"default_days_per_year" binding:"required,min=0"`
}

type UpdateLeaveTypeRequest struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	DefaultDaysPerYear *int    `json:"default_days_per_year"`
	IsActive           *bool   `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	DefaultDaysPerYear int    `json:"default_days_per_year"`
	IsActive           bool   `json:"is_active"`
}
