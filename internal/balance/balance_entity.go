package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance tracks one user's allowance for one leave type in one year.
// Remaining is always derived as allocated - used - pending, never stored.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_user_type_year"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_user_type_year"`
	Year        int       `gorm:"type:int;not null;uniqueIndex:idx_balances_user_type_year"`

	Allocated int `gorm:"type:int;not null;default:0"`
	Used      int `gorm:"type:int;not null;default:0"`
	Pending   int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (b LeaveBalance) Remaining() int {
	return b.Allocated - b.Used - b.Pending
}
