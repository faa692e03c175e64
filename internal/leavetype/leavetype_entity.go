package leavetype

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string    `gorm:"size:255;not null;uniqueIndex"`
	Description        string    `gorm:"type:text"`
	DefaultDaysPerYear int       `gorm:"type:int;not null;default:0"`
	IsActive           bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}
