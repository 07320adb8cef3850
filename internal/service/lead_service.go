package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vultos-swap/internal/commission"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/notify"
	"github.com/vultos-swap/internal/repository"
	"gorm.io/gorm"
)

// LeadService owns the swap ticket lifecycle: intake with an estimated
// split, and confirmation with the final one.
type LeadService struct {
	leadRepo       repository.LeadRepository
	affiliateRepo  repository.AffiliateRepository
	settingService *SettingService
	dispatcher     *notify.Dispatcher
}

// NewLeadService creates the lead service.
func NewLeadService(
	leadRepo repository.LeadRepository,
	affiliateRepo repository.AffiliateRepository,
	settingService *SettingService,
	dispatcher *notify.Dispatcher,
) *LeadService {
	return &LeadService{
		leadRepo:       leadRepo,
		affiliateRepo:  affiliateRepo,
		settingService: settingService,
		dispatcher:     dispatcher,
	}
}

// LeadCreateInput is the intake payload. FeePercent is the quoted fee
// when the conversation already settled on one; a zero value falls
// back to the configured band midpoint.
type LeadCreateInput struct {
	AffiliateCode    string
	ClientDiscordID  string
	ClientName       string
	ServiceType      string
	CryptoCoin       string
	TransactionValue decimal.Decimal
	FeePercent       decimal.Decimal
}

// CreateLead opens a ticket. Rates and the recruiter code are frozen
// on the row so later affiliate edits never reprice an open ticket.
// An unknown or disabled affiliate code still produces a ticket, just
// with a zeroed split.
func (s *LeadService) CreateLead(input LeadCreateInput) (*models.Lead, error) {
	if s == nil || s.leadRepo == nil || s.affiliateRepo == nil {
		return nil, ErrLeadNotFound
	}

	if strings.TrimSpace(input.AffiliateCode) == "" {
		return nil, ErrLeadInputInvalid
	}
	if strings.TrimSpace(input.CryptoCoin) == "" {
		return nil, ErrCryptoCoinRequired
	}

	setting, err := s.settingService.GetSwapSetting()
	if err != nil {
		return nil, err
	}
	if input.TransactionValue.LessThan(decimal.NewFromFloat(setting.MinTransaction)) {
		return nil, ErrTransactionTooSmall
	}
	serviceType := strings.ToLower(strings.TrimSpace(input.ServiceType))
	if serviceType == "" {
		serviceType = constants.LeadServiceTypeSwap
	}
	if serviceType != constants.LeadServiceTypeSwap {
		return nil, ErrLeadServiceTypeInvalid
	}

	affiliate, err := s.affiliateRepo.GetByCode(input.AffiliateCode)
	if err != nil {
		return nil, err
	}

	intakeFee := input.FeePercent
	if intakeFee.IsZero() {
		intakeFee = decimal.NewFromFloat(setting.EstimateFeePercent())
	} else if intakeFee.LessThan(decimal.NewFromFloat(setting.MinFee)) ||
		intakeFee.GreaterThan(decimal.NewFromFloat(setting.MaxFee)) {
		return nil, ErrFeeOutOfRange
	}
	lead := &models.Lead{
		LeadCode:         uuid.NewString(),
		AffiliateCode:    repository.NormalizeAffiliateCode(input.AffiliateCode),
		ClientDiscordID:  strings.TrimSpace(input.ClientDiscordID),
		ClientName:       strings.TrimSpace(input.ClientName),
		ServiceType:      serviceType,
		CryptoCoin:       strings.ToUpper(strings.TrimSpace(input.CryptoCoin)),
		TransactionValue: models.NewMoneyFromDecimal(input.TransactionValue),
		FeePercent:       models.NewMoneyFromDecimal(intakeFee),
		Status:           constants.LeadStatusPending,
	}

	attributed := affiliate != nil && affiliate.IsActive
	if attributed {
		lead.CommissionPercent = affiliate.Commission
		lead.CascadeCode = affiliate.ReferredBy
		if lead.CascadeCode != "" {
			recruiter, err := s.affiliateRepo.GetByCode(lead.CascadeCode)
			if err != nil {
				return nil, err
			}
			if recruiter != nil && recruiter.IsActive {
				lead.CascadePercent = recruiter.CascadeCommission
			} else {
				lead.CascadeCode = ""
			}
		}
	} else {
		logger.Warnw("lead_unattributed",
			"affiliate_code", lead.AffiliateCode,
			"reason", "unknown_or_disabled",
		)
	}

	split := commission.Zero()
	if attributed {
		split = commission.Compute(commission.Input{
			TransactionValue:  input.TransactionValue,
			FeePercent:        intakeFee,
			CommissionPercent: lead.CommissionPercent.Decimal,
			CascadePercent:    lead.CascadePercent.Decimal,
		})
	}
	applySplit(lead, split)

	err = s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.leadRepo.WithTx(tx).Create(lead); err != nil {
			return err
		}
		if !attributed {
			return nil
		}
		return s.affiliateRepo.WithTx(tx).
			RecordLeadCreated(lead.AffiliateCode, lead.AffiliateCommission.Decimal, time.Now())
	})
	if err != nil {
		return nil, err
	}

	message := notify.BuildLeadCreated(lead)
	if attributed {
		s.dispatcher.Notify(context.Background(), constants.WebhookEventLeadCreated, affiliate.DiscordWebhookURL, message)
	}
	s.dispatcher.NotifyStaff(context.Background(), constants.WebhookEventLeadCreated, message)
	return lead, nil
}

// ConfirmSale settles a ticket with the value and fee the deal closed
// at. A zero finalValue keeps the intake value. The row is locked so
// concurrent confirmations of the same ticket cannot both credit the
// ledger; the second caller gets ErrLeadAlreadyConfirmed.
func (s *LeadService) ConfirmSale(leadID uint, finalValue, feePercent decimal.Decimal, confirmedBy string) (*models.Lead, error) {
	if s == nil || s.leadRepo == nil || s.affiliateRepo == nil {
		return nil, ErrLeadNotFound
	}
	if finalValue.IsNegative() {
		return nil, ErrLeadInputInvalid
	}

	setting, err := s.settingService.GetSwapSetting()
	if err != nil {
		return nil, err
	}
	if feePercent.LessThan(decimal.NewFromFloat(setting.MinFee)) ||
		feePercent.GreaterThan(decimal.NewFromFloat(setting.MaxFee)) {
		return nil, ErrFeeOutOfRange
	}

	var confirmed *models.Lead
	err = s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		leadRepo := s.leadRepo.WithTx(tx)
		affiliateRepo := s.affiliateRepo.WithTx(tx)

		lead, err := leadRepo.GetByIDForUpdate(leadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return ErrLeadNotFound
		}
		if lead.Status == constants.LeadStatusConfirmed {
			return ErrLeadAlreadyConfirmed
		}

		estimated := lead.AffiliateCommission.Decimal

		settledValue := lead.TransactionValue.Decimal
		if finalValue.IsPositive() {
			settledValue = finalValue
		}

		// Snapshotted percents drive the final split. Unattributed
		// tickets carry zero percents, so the whole profit lands on
		// the company side and the ledger updates match no rows.
		split := commission.Compute(commission.Input{
			TransactionValue:  settledValue,
			FeePercent:        feePercent,
			CommissionPercent: lead.CommissionPercent.Decimal,
			CascadePercent:    lead.CascadePercent.Decimal,
		})

		now := time.Now()
		lead.TransactionValue = models.NewMoneyFromDecimal(settledValue)
		lead.FeePercent = models.NewMoneyFromDecimal(feePercent)
		applySplit(lead, split)
		lead.Status = constants.LeadStatusConfirmed
		lead.ConfirmedAt = &now
		lead.ConfirmedBy = strings.TrimSpace(confirmedBy)
		if err := leadRepo.Update(lead); err != nil {
			return err
		}

		if err := affiliateRepo.RecordSaleConfirmed(
			lead.AffiliateCode, lead.AffiliateCommission.Decimal, estimated, now); err != nil {
			return err
		}
		if lead.CascadeCode != "" && lead.CascadeCommission.Decimal.IsPositive() {
			if err := affiliateRepo.RecordCascadeCredit(
				lead.CascadeCode, lead.CascadeCommission.Decimal, now); err != nil {
				return err
			}
		}

		confirmed = lead
		return nil
	})
	if err != nil {
		return nil, err
	}

	message := notify.BuildSaleConfirmed(confirmed)
	if affiliate, err := s.affiliateRepo.GetByCode(confirmed.AffiliateCode); err == nil && affiliate != nil {
		s.dispatcher.Notify(context.Background(), constants.WebhookEventSaleConfirmed, affiliate.DiscordWebhookURL, message)
	}
	if confirmed.CascadeCode != "" && confirmed.CascadeCommission.Decimal.IsPositive() {
		if recruiter, err := s.affiliateRepo.GetByCode(confirmed.CascadeCode); err == nil && recruiter != nil {
			s.dispatcher.Notify(context.Background(), constants.WebhookEventCascadeCredit,
				recruiter.DiscordWebhookURL, notify.BuildCascadeCredit(confirmed))
		}
	}
	s.dispatcher.NotifyStaff(context.Background(), constants.WebhookEventSaleConfirmed, message)
	return confirmed, nil
}

// GetLead fetches a ticket by id.
func (s *LeadService) GetLead(id uint) (*models.Lead, error) {
	if s == nil || s.leadRepo == nil {
		return nil, ErrLeadNotFound
	}
	lead, err := s.leadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// GetLeadByCode fetches a ticket by its public code.
func (s *LeadService) GetLeadByCode(code string) (*models.Lead, error) {
	if s == nil || s.leadRepo == nil {
		return nil, ErrLeadNotFound
	}
	lead, err := s.leadRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// ListLeads queries tickets.
func (s *LeadService) ListLeads(filter repository.LeadListFilter) ([]models.Lead, int64, error) {
	if s == nil || s.leadRepo == nil {
		return nil, 0, ErrLeadNotFound
	}
	return s.leadRepo.List(filter)
}

func applySplit(lead *models.Lead, split commission.Split) {
	lead.TotalProfit = models.NewMoneyFromDecimal(split.TotalProfit)
	lead.AffiliateCommission = models.NewMoneyFromDecimal(split.AffiliateCommission)
	lead.CascadeCommission = models.NewMoneyFromDecimal(split.CascadeCommission)
	lead.CompanyProfit = models.NewMoneyFromDecimal(split.CompanyProfit)
}
