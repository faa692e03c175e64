package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Leave is one time-off request. It is created pending and moves exactly once
// to approved, rejected, or cancelled. Pending and approved rows may still be
// hard-deleted by an admin, which also reconciles the balance.
type Leave struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequesterID uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"type:int;not null"`
	Reason    string    `gorm:"type:text"`

	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewerID    *uuid.UUID `gorm:"type:uuid"`
	ReviewComment *string    `gorm:"type:text"`
	ReviewedAt    *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Requester *LeaveRequester `gorm:"foreignKey:RequesterID;references:ID"`
	LeaveType *LeaveTypeRef   `gorm:"foreignKey:LeaveTypeID;references:ID"`
	Reviewer  *LeaveReviewer  `gorm:"foreignKey:ReviewerID;references:ID"`
}

func ValidReviewOutcome(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// LeaveRequester carries the requester fields needed for responses and for
// department scoping.
type LeaveRequester struct {
	ID           uuid.UUID  `gorm:"primaryKey"`
	FirstName    string     `gorm:"column:first_name"`
	LastName     string     `gorm:"column:last_name"`
	Email        string     `gorm:"column:email"`
	DepartmentID *uuid.UUID `gorm:"column:department_id"`
}

func (LeaveRequester) TableName() string {
	return "users"
}

type LeaveReviewer struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (LeaveReviewer) TableName() string {
	return "users"
}

type LeaveTypeRef struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string    `gorm:"column:name"`
}

func (LeaveTypeRef) TableName() string {
	return "leave_types"
}
