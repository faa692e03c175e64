package balance

type LeaveBalanceResponse struct {
	ID          string `json:"id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Allocated   int    `json:"allocated"`
	Used        int    `json:"used"`
	Pending     int    `json:"pending"`
	Remaining   int    `json:"remaining"`
}
