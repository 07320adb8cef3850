package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/vultos-swap/internal/models"
	"gorm.io/gorm"
)

// OTPRepository is the one-time code data access interface.
type OTPRepository interface {
	Create(code *models.OTPCode) error
	Update(code *models.OTPCode) error
	GetLatestActive(discordID, purpose string, now time.Time) (*models.OTPCode, error)
	InvalidateActive(discordID, purpose string, now time.Time) error
	PurgeExpired(before time.Time) (int64, error)
}

// GormOTPRepository is the GORM one-time code repository.
type GormOTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates an OTP repository.
func NewOTPRepository(db *gorm.DB) *GormOTPRepository {
	return &GormOTPRepository{db: db}
}

// Create inserts a new one-time code.
func (r *GormOTPRepository) Create(code *models.OTPCode) error {
	return r.db.Create(code).Error
}

// Update persists all code fields.
func (r *GormOTPRepository) Update(code *models.OTPCode) error {
	return r.db.Save(code).Error
}

// GetLatestActive fetches the newest unexpired unverified code.
func (r *GormOTPRepository) GetLatestActive(discordID, purpose string, now time.Time) (*models.OTPCode, error) {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil, nil
	}
	var code models.OTPCode
	err := r.db.Where("discord_id = ? AND purpose = ? AND verified_at IS NULL AND expires_at > ?",
		trimmed, strings.TrimSpace(purpose), now).
		Order("id desc").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// InvalidateActive expires outstanding codes so a fresh issue is the
// only valid one.
func (r *GormOTPRepository) InvalidateActive(discordID, purpose string, now time.Time) error {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil
	}
	return r.db.Model(&models.OTPCode{}).
		Where("discord_id = ? AND purpose = ? AND verified_at IS NULL AND expires_at > ?",
			trimmed, strings.TrimSpace(purpose), now).
		Update("expires_at", now).Error
}

// PurgeExpired removes codes past their expiry.
func (r *GormOTPRepository) PurgeExpired(before time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", before).Delete(&models.OTPCode{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
