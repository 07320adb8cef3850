package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vultos-swap/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AffiliateListFilter filters affiliate listings.
type AffiliateListFilter struct {
	Tier       string
	ReferredBy string
	ActiveOnly bool
	Keyword    string
	Page       int
	PageSize   int
}

// AffiliateRepository is the affiliate data access interface.
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	Create(affiliate *models.Affiliate) error
	Update(affiliate *models.Affiliate) error
	GetByID(id uint) (*models.Affiliate, error)
	GetByCode(code string) (*models.Affiliate, error)
	GetByCodeForUpdate(code string) (*models.Affiliate, error)
	GetByDiscordID(discordID string) (*models.Affiliate, error)
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)
	ListRanking(limit int) ([]models.Affiliate, error)
	Deactivate(id uint, updatedAt time.Time) error

	RecordLeadCreated(code string, estimated decimal.Decimal, now time.Time) error
	RecordSaleConfirmed(code string, earned, estimated decimal.Decimal, now time.Time) error
	RecordCascadeCredit(code string, amount decimal.Decimal, now time.Time) error
	RecordReferralAdded(code string, now time.Time) error
	RecordWithdrawalCompleted(code string, amount decimal.Decimal, now time.Time) error
}

// GormAffiliateRepository is the GORM affiliate repository.
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository creates an affiliate repository.
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create inserts a new affiliate.
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// Update persists all affiliate fields.
func (r *GormAffiliateRepository) Update(affiliate *models.Affiliate) error {
	return r.db.Save(affiliate).Error
}

// GetByID fetches an affiliate by primary key.
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByCode fetches an affiliate by code.
func (r *GormAffiliateRepository) GetByCode(code string) (*models.Affiliate, error) {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("affiliate_code = ?", normalized).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByCodeForUpdate fetches an affiliate by code with a row lock.
func (r *GormAffiliateRepository) GetByCodeForUpdate(code string) (*models.Affiliate, error) {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("affiliate_code = ?", normalized).
		First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByDiscordID fetches an affiliate by Discord account id.
func (r *GormAffiliateRepository) GetByDiscordID(discordID string) (*models.Affiliate, error) {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("discord_id = ?", trimmed).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// List queries affiliates with filters and pagination.
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{})
	if tier := strings.TrimSpace(filter.Tier); tier != "" {
		query = query.Where("tier = ?", tier)
	}
	if referrer := NormalizeAffiliateCode(filter.ReferredBy); referrer != "" {
		query = query.Where("referred_by = ?", referrer)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("(name LIKE ? OR affiliate_code LIKE ? OR discord_id LIKE ?)", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Affiliate
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListRanking returns active affiliates sorted by lifetime earnings.
func (r *GormAffiliateRepository) ListRanking(limit int) ([]models.Affiliate, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.Affiliate
	if err := r.db.Where("is_active = ?", true).
		Order("total_earnings desc, total_sales desc, id asc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Deactivate soft-disables an affiliate without destroying its ledger.
func (r *GormAffiliateRepository) Deactivate(id uint, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": updatedAt,
		}).Error
}

// RecordLeadCreated credits the estimated commission of a new lead to
// the affiliate's pending balance.
func (r *GormAffiliateRepository) RecordLeadCreated(code string, estimated decimal.Decimal, now time.Time) error {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", normalized).
		Updates(map[string]interface{}{
			"pending_earnings": gorm.Expr("pending_earnings + ?", estimated),
			"updated_at":       now,
		}).Error
}

// RecordSaleConfirmed moves a lead's worth from pending to earned. The
// pending balance never goes below zero even when the estimate differs
// from the confirmed amount.
func (r *GormAffiliateRepository) RecordSaleConfirmed(code string, earned, estimated decimal.Decimal, now time.Time) error {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", normalized).
		Updates(map[string]interface{}{
			"total_sales":    gorm.Expr("total_sales + 1"),
			"total_earnings": gorm.Expr("total_earnings + ?", earned),
			"pending_earnings": gorm.Expr(
				"CASE WHEN pending_earnings > ? THEN pending_earnings - ? ELSE 0 END",
				estimated, estimated,
			),
			"updated_at": now,
		}).Error
}

// RecordCascadeCredit credits a recruiter's share of a referral's sale.
func (r *GormAffiliateRepository) RecordCascadeCredit(code string, amount decimal.Decimal, now time.Time) error {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", normalized).
		Updates(map[string]interface{}{
			"cascade_earnings": gorm.Expr("cascade_earnings + ?", amount),
			"total_earnings":   gorm.Expr("total_earnings + ?", amount),
			"updated_at":       now,
		}).Error
}

// RecordReferralAdded bumps the recruiter's referral counter.
func (r *GormAffiliateRepository) RecordReferralAdded(code string, now time.Time) error {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", normalized).
		Updates(map[string]interface{}{
			"referrals_count": gorm.Expr("referrals_count + 1"),
			"updated_at":      now,
		}).Error
}

// RecordWithdrawalCompleted debits a paid-out amount from lifetime
// earnings. The caller re-checks the balance under a row lock first.
func (r *GormAffiliateRepository) RecordWithdrawalCompleted(code string, amount decimal.Decimal, now time.Time) error {
	normalized := NormalizeAffiliateCode(code)
	if normalized == "" {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", normalized).
		Updates(map[string]interface{}{
			"total_earnings": gorm.Expr("total_earnings - ?", amount),
			"updated_at":     now,
		}).Error
}

// NormalizeAffiliateCode canonicalizes an affiliate code for lookups.
func NormalizeAffiliateCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
