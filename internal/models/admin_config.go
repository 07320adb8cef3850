package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminConfig registers a Discord account as a staff operator.
type AdminConfig struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	DiscordID   string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"discord_id"`
	Name        string         `gorm:"type:varchar(100)" json:"name"`
	IsSuper     bool           `gorm:"not null;default:false;index" json:"is_super"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (AdminConfig) TableName() string {
	return "admin_configs"
}
