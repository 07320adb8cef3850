package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/vultos-swap/internal/cache"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/notify"
	"github.com/vultos-swap/internal/repository"
)

const affiliateCodeLength = 8

// AffiliateService owns the affiliate roster and its earnings ledger.
type AffiliateService struct {
	repo           repository.AffiliateRepository
	leadRepo       repository.LeadRepository
	settingService *SettingService
	dispatcher     *notify.Dispatcher
}

// NewAffiliateService creates the affiliate service.
func NewAffiliateService(
	repo repository.AffiliateRepository,
	leadRepo repository.LeadRepository,
	settingService *SettingService,
	dispatcher *notify.Dispatcher,
) *AffiliateService {
	return &AffiliateService{
		repo:           repo,
		leadRepo:       leadRepo,
		settingService: settingService,
		dispatcher:     dispatcher,
	}
}

// AffiliateCreateInput is the admin-facing creation payload. Code is
// the affiliate's chosen public code; when blank one is generated.
type AffiliateCreateInput struct {
	Name              string
	Username          string
	DiscordID         string
	Code              string
	Tier              string
	Commission        *float64 // overrides the tier rate when set
	ReferredBy        string
	DiscordWebhookURL string
}

// AffiliateUpdateInput is the admin-facing update payload. Nil fields
// are left untouched.
type AffiliateUpdateInput struct {
	Name              *string
	Tier              *string
	Commission        *float64
	CascadeCommission *float64
	DiscordWebhookURL *string
	IsActive          *bool
}

// AffiliateStats summarizes an affiliate's funnel and balances.
type AffiliateStats struct {
	AffiliateCode   string       `json:"affiliate_code"`
	TotalLeads      int64        `json:"total_leads"`
	ConfirmedLeads  int64        `json:"confirmed_leads"`
	ConversionRate  float64      `json:"conversion_rate"`
	TotalSales      int          `json:"total_sales"`
	ReferralsCount  int          `json:"referrals_count"`
	TotalEarnings   models.Money `json:"total_earnings"`
	PendingEarnings models.Money `json:"pending_earnings"`
	CascadeEarnings models.Money `json:"cascade_earnings"`
}

// CreateAffiliate registers a partner, allocating a unique code and
// deriving the commission from the tier unless an override is given.
func (s *AffiliateService) CreateAffiliate(input AffiliateCreateInput) (*models.Affiliate, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAffiliateNotFound
	}
	name := strings.TrimSpace(input.Name)
	discordID := strings.TrimSpace(input.DiscordID)
	if name == "" || discordID == "" {
		return nil, ErrAffiliateInputInvalid
	}
	chosenCode := repository.NormalizeAffiliateCode(input.Code)
	if chosenCode != "" && (len(chosenCode) < 3 || len(chosenCode) > 20) {
		return nil, ErrAffiliateInputInvalid
	}

	tier := strings.ToLower(strings.TrimSpace(input.Tier))
	if tier == "" {
		tier = constants.AffiliateTierDefault
	}
	tierRate, ok := constants.AffiliateTierCommission[tier]
	if !ok {
		return nil, ErrAffiliateTierInvalid
	}
	commission := tierRate
	if input.Commission != nil {
		commission = *input.Commission
		if commission < 0 || commission > 100 {
			return nil, ErrCommissionRateInvalid
		}
	}

	existing, err := s.repo.GetByDiscordID(discordID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAffiliateExists
	}

	referredBy := repository.NormalizeAffiliateCode(input.ReferredBy)
	if referredBy != "" {
		if referredBy == chosenCode {
			return nil, ErrReferrerSelfReferral
		}
		referrer, err := s.repo.GetByCode(referredBy)
		if err != nil {
			return nil, err
		}
		if referrer == nil || !referrer.IsActive {
			return nil, ErrReferrerNotFound
		}
		if referrer.DiscordID == discordID {
			return nil, ErrReferrerSelfReferral
		}
	}

	setting, err := s.settingService.GetSwapSetting()
	if err != nil {
		return nil, err
	}

	newAffiliate := func(code string) *models.Affiliate {
		return &models.Affiliate{
			Name:              name,
			Username:          strings.TrimSpace(input.Username),
			DiscordID:         discordID,
			AffiliateCode:     code,
			Tier:              tier,
			Commission:        models.NewMoneyFromFloat(commission),
			ReferredBy:        referredBy,
			CascadeCommission: models.NewMoneyFromFloat(setting.CascadeCommission),
			DiscordWebhookURL: strings.TrimSpace(input.DiscordWebhookURL),
			IsActive:          true,
		}
	}

	var affiliate *models.Affiliate
	if chosenCode != "" {
		taken, err := s.repo.GetByCode(chosenCode)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrAffiliateExists
		}
		affiliate = newAffiliate(chosenCode)
		if err := s.repo.Create(affiliate); err != nil {
			if isUniqueViolation(err) {
				return nil, ErrAffiliateExists
			}
			return nil, err
		}
	} else {
		const maxRetry = 8
		for i := 0; i < maxRetry; i++ {
			code, genErr := generateAffiliateCode()
			if genErr != nil {
				return nil, genErr
			}
			candidate := newAffiliate(code)
			if err := s.repo.Create(candidate); err != nil {
				if isUniqueViolation(err) {
					continue
				}
				return nil, err
			}
			affiliate = candidate
			break
		}
		if affiliate == nil {
			return nil, ErrAffiliateCodeExhausted
		}
	}

	if referredBy != "" {
		if err := s.repo.RecordReferralAdded(referredBy, time.Now()); err != nil {
			return nil, err
		}
	}

	s.dispatcher.NotifyStaff(context.Background(),
		constants.WebhookEventAffiliateCreated, notify.BuildAffiliateCreated(affiliate))
	return affiliate, nil
}

// UpdateAffiliate applies a partial update. Changing the tier without
// an explicit commission re-derives the rate from the new tier.
func (s *AffiliateService) UpdateAffiliate(code string, input AffiliateUpdateInput) (*models.Affiliate, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAffiliateNotFound
	}
	affiliate, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrAffiliateInputInvalid
		}
		affiliate.Name = name
	}
	if input.Tier != nil {
		tier := strings.ToLower(strings.TrimSpace(*input.Tier))
		tierRate, ok := constants.AffiliateTierCommission[tier]
		if !ok {
			return nil, ErrAffiliateTierInvalid
		}
		affiliate.Tier = tier
		if input.Commission == nil {
			affiliate.Commission = models.NewMoneyFromFloat(tierRate)
		}
	}
	if input.Commission != nil {
		if *input.Commission < 0 || *input.Commission > 100 {
			return nil, ErrCommissionRateInvalid
		}
		affiliate.Commission = models.NewMoneyFromFloat(*input.Commission)
	}
	if input.CascadeCommission != nil {
		if *input.CascadeCommission < 0 || *input.CascadeCommission > 100 {
			return nil, ErrCommissionRateInvalid
		}
		affiliate.CascadeCommission = models.NewMoneyFromFloat(*input.CascadeCommission)
	}
	if input.DiscordWebhookURL != nil {
		affiliate.DiscordWebhookURL = strings.TrimSpace(*input.DiscordWebhookURL)
	}
	if input.IsActive != nil {
		affiliate.IsActive = *input.IsActive
	}

	if err := s.repo.Update(affiliate); err != nil {
		return nil, err
	}
	if err := cache.DelAffiliateAuthState(context.Background(), affiliate.DiscordID); err != nil {
		logger.Warnw("auth_state_evict_failed", "discord_id", affiliate.DiscordID, "error", err)
	}
	return affiliate, nil
}

// DeactivateAffiliate disables an affiliate while keeping its ledger
// intact. Open leads keep their snapshotted rates.
func (s *AffiliateService) DeactivateAffiliate(code string) error {
	if s == nil || s.repo == nil {
		return ErrAffiliateNotFound
	}
	affiliate, err := s.repo.GetByCode(code)
	if err != nil {
		return err
	}
	if affiliate == nil {
		return ErrAffiliateNotFound
	}
	if err := s.repo.Deactivate(affiliate.ID, time.Now()); err != nil {
		return err
	}
	return cache.DelAffiliateAuthState(context.Background(), affiliate.DiscordID)
}

// GetByCode fetches an affiliate by code.
func (s *AffiliateService) GetByCode(code string) (*models.Affiliate, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAffiliateNotFound
	}
	affiliate, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

// GetByDiscordID fetches an affiliate by Discord account.
func (s *AffiliateService) GetByDiscordID(discordID string) (*models.Affiliate, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAffiliateNotFound
	}
	affiliate, err := s.repo.GetByDiscordID(discordID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

// List queries affiliates for the admin panel.
func (s *AffiliateService) List(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrAffiliateNotFound
	}
	return s.repo.List(filter)
}

// Ranking returns the top earners.
func (s *AffiliateService) Ranking(limit int) ([]models.Affiliate, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAffiliateNotFound
	}
	return s.repo.ListRanking(limit)
}

// Stats builds the funnel summary for one affiliate.
func (s *AffiliateService) Stats(code string) (AffiliateStats, error) {
	affiliate, err := s.GetByCode(code)
	if err != nil {
		return AffiliateStats{}, err
	}

	totalLeads, err := s.leadRepo.CountByAffiliate(affiliate.AffiliateCode, "")
	if err != nil {
		return AffiliateStats{}, err
	}
	confirmedLeads, err := s.leadRepo.CountByAffiliate(affiliate.AffiliateCode, constants.LeadStatusConfirmed)
	if err != nil {
		return AffiliateStats{}, err
	}

	return AffiliateStats{
		AffiliateCode:   affiliate.AffiliateCode,
		TotalLeads:      totalLeads,
		ConfirmedLeads:  confirmedLeads,
		ConversionRate:  calcConversionRate(confirmedLeads, totalLeads),
		TotalSales:      affiliate.TotalSales,
		ReferralsCount:  affiliate.ReferralsCount,
		TotalEarnings:   affiliate.TotalEarnings,
		PendingEarnings: affiliate.PendingEarnings,
		CascadeEarnings: affiliate.CascadeEarnings,
	}, nil
}

func calcConversionRate(confirmed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(confirmed) / float64(total) * 100
	return float64(int(rate*100)) / 100
}

func generateAffiliateCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	var builder strings.Builder
	builder.Grow(affiliateCodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < affiliateCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
