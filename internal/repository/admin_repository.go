package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/vultos-swap/internal/models"
	"gorm.io/gorm"
)

// AdminRepository is the staff operator data access interface.
type AdminRepository interface {
	Create(admin *models.AdminConfig) error
	GetByDiscordID(discordID string) (*models.AdminConfig, error)
	List() ([]models.AdminConfig, error)
	Remove(discordID string) error
	TouchLogin(discordID string, at time.Time) error
}

// GormAdminRepository is the GORM staff operator repository.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates an admin repository.
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// Create inserts a new staff operator.
func (r *GormAdminRepository) Create(admin *models.AdminConfig) error {
	return r.db.Create(admin).Error
}

// GetByDiscordID fetches a staff operator by Discord account id.
func (r *GormAdminRepository) GetByDiscordID(discordID string) (*models.AdminConfig, error) {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil, nil
	}
	var admin models.AdminConfig
	if err := r.db.Where("discord_id = ?", trimmed).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// List returns all staff operators.
func (r *GormAdminRepository) List() ([]models.AdminConfig, error) {
	var rows []models.AdminConfig
	if err := r.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Remove soft-deletes a staff operator.
func (r *GormAdminRepository) Remove(discordID string) error {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil
	}
	return r.db.Where("discord_id = ?", trimmed).Delete(&models.AdminConfig{}).Error
}

// TouchLogin records the last successful login time.
func (r *GormAdminRepository) TouchLogin(discordID string, at time.Time) error {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil
	}
	return r.db.Model(&models.AdminConfig{}).
		Where("discord_id = ?", trimmed).
		Update("last_login_at", at).Error
}
