package models

import (
	"time"

	"gorm.io/gorm"
)

// OTPCode is a one-time login code issued to a Discord account.
// Only the bcrypt hash is stored.
type OTPCode struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	DiscordID    string         `gorm:"type:varchar(32);not null;index" json:"discord_id"`
	Purpose      string         `gorm:"type:varchar(20);not null;index" json:"purpose"`
	CodeHash     string         `gorm:"not null" json:"-"`
	ExpiresAt    time.Time      `gorm:"index" json:"expires_at"`
	VerifiedAt   *time.Time     `gorm:"index" json:"verified_at"`
	AttemptCount int            `gorm:"default:0" json:"attempt_count"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OTPCode) TableName() string {
	return "otp_codes"
}
