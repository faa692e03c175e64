package leaveerrors

import (
	"fmt"
	"net/http"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"leave id must be a valid uuid",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"dates must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"the requested range contains no working days",
		http.StatusBadRequest,
	)
	ErrLeaveTypeUnavailable = apperror.New(
		apperror.CodeNotFound,
		"leave type not found or inactive",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an existing pending or approved leave overlaps this date range",
		http.StatusConflict,
	)
	ErrOnlyPendingReviewable = apperror.New(
		apperror.CodeConflict,
		"only pending leaves can be reviewed",
		http.StatusConflict,
	)
	ErrOnlyPendingCancellable = apperror.New(
		apperror.CodeConflict,
		"only pending leaves can be cancelled",
		http.StatusConflict,
	)
	ErrLeaveModified = apperror.New(
		apperror.CodeConflict,
		"the leave was changed by another request, retry",
		http.StatusConflict,
	)
	ErrNotYourLeave = apperror.New(
		apperror.CodeForbidden,
		"you do not have access to this leave request",
		http.StatusForbidden,
	)
	ErrDifferentDepartment = apperror.New(
		apperror.CodeForbidden,
		"managers can only review leaves within their own department",
		http.StatusForbidden,
	)
)

// NewInsufficientBalance carries the numbers the caller needs to correct the
// request.
func NewInsufficientBalance(available, requested int) *apperror.AppError {
	return apperror.New(
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("insufficient leave balance: %d day(s) available, %d requested", available, requested),
		http.StatusUnprocessableEntity,
	)
}
