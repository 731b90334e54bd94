package dbmysql

import (
	"time"
)

// Profile holds the public part of a user account.
type Profile struct {
	UserID      string    `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	DisplayName string    `gorm:"column:display_name;size:100" json:"display_name"`
	Status      string    `gorm:"column:status;size:20;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
