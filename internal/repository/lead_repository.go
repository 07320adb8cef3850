package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/vultos-swap/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeadListFilter filters lead listings.
type LeadListFilter struct {
	AffiliateCode string
	Status        string
	ServiceType   string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Page          int
	PageSize      int
}

// LeadRepository is the lead data access interface.
type LeadRepository interface {
	WithTx(tx *gorm.DB) LeadRepository

	Create(lead *models.Lead) error
	Update(lead *models.Lead) error
	GetByID(id uint) (*models.Lead, error)
	GetByIDForUpdate(id uint) (*models.Lead, error)
	GetByCode(leadCode string) (*models.Lead, error)
	List(filter LeadListFilter) ([]models.Lead, int64, error)
	CountByAffiliate(code string, status string) (int64, error)
}

// GormLeadRepository is the GORM lead repository.
type GormLeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a lead repository.
func NewLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormLeadRepository) WithTx(tx *gorm.DB) LeadRepository {
	if tx == nil {
		return r
	}
	return &GormLeadRepository{db: tx}
}

// Create inserts a new lead.
func (r *GormLeadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

// Update persists all lead fields.
func (r *GormLeadRepository) Update(lead *models.Lead) error {
	return r.db.Save(lead).Error
}

// GetByID fetches a lead by primary key.
func (r *GormLeadRepository) GetByID(id uint) (*models.Lead, error) {
	if id == 0 {
		return nil, nil
	}
	var lead models.Lead
	if err := r.db.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

// GetByIDForUpdate fetches a lead by primary key with a row lock.
func (r *GormLeadRepository) GetByIDForUpdate(id uint) (*models.Lead, error) {
	if id == 0 {
		return nil, nil
	}
	var lead models.Lead
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

// GetByCode fetches a lead by its public code.
func (r *GormLeadRepository) GetByCode(leadCode string) (*models.Lead, error) {
	trimmed := strings.TrimSpace(leadCode)
	if trimmed == "" {
		return nil, nil
	}
	var lead models.Lead
	if err := r.db.Where("lead_code = ?", trimmed).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

// List queries leads with filters and pagination.
func (r *GormLeadRepository) List(filter LeadListFilter) ([]models.Lead, int64, error) {
	query := r.db.Model(&models.Lead{})
	if code := NormalizeAffiliateCode(filter.AffiliateCode); code != "" {
		query = query.Where("affiliate_code = ?", code)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if serviceType := strings.TrimSpace(filter.ServiceType); serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Lead
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountByAffiliate counts an affiliate's leads, optionally by status.
func (r *GormLeadRepository) CountByAffiliate(code string, status string) (int64, error) {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return 0, nil
	}
	query := r.db.Model(&models.Lead{}).Where("affiliate_code = ?", normalized)
	if s := strings.TrimSpace(status); s != "" {
		query = query.Where("status = ?", s)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
