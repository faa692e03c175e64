package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;type:text;not null"`
	FirstName    string     `gorm:"column:first_name;type:varchar(255);not null"`
	LastName     string     `gorm:"column:last_name;type:varchar(255);not null"`
	Role         string     `gorm:"column:role;type:varchar(20);not null;default:'employee'"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid;index"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Department *UserDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
}

// UserDepartment joins the minimal department fields needed in responses.
type UserDepartment struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string    `gorm:"column:name"`
}

func (UserDepartment) TableName() string {
	return "departments"
}
