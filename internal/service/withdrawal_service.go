package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/notify"
	"github.com/vultos-swap/internal/repository"
	"gorm.io/gorm"
)

// withdrawalTransitions lists the allowed status moves. Completed and
// rejected are terminal.
var withdrawalTransitions = map[string][]string{
	constants.WithdrawalStatusPending: {
		constants.WithdrawalStatusApproved,
		constants.WithdrawalStatusCompleted,
		constants.WithdrawalStatusRejected,
	},
	constants.WithdrawalStatusApproved: {
		constants.WithdrawalStatusCompleted,
		constants.WithdrawalStatusRejected,
	},
}

// WithdrawalService owns the payout request state machine.
type WithdrawalService struct {
	repo          repository.WithdrawalRepository
	affiliateRepo repository.AffiliateRepository
	dispatcher    *notify.Dispatcher
}

// NewWithdrawalService creates the withdrawal service.
func NewWithdrawalService(
	repo repository.WithdrawalRepository,
	affiliateRepo repository.AffiliateRepository,
	dispatcher *notify.Dispatcher,
) *WithdrawalService {
	return &WithdrawalService{
		repo:          repo,
		affiliateRepo: affiliateRepo,
		dispatcher:    dispatcher,
	}
}

// WithdrawalRequestInput is the affiliate-facing request payload.
type WithdrawalRequestInput struct {
	AffiliateCode string
	Amount        decimal.Decimal
	Method        string
	PixKey        string
	CryptoCoin    string
	CryptoNetwork string
	WalletAddress string
}

// Request opens a payout request. The intake balance check is a
// courtesy reject for obviously oversized amounts; the definitive
// check-then-debit happens under a row lock when an admin marks the
// request completed, so several open requests may coexist.
func (s *WithdrawalService) Request(input WithdrawalRequestInput) (*models.WithdrawalRequest, error) {
	if s == nil || s.repo == nil || s.affiliateRepo == nil {
		return nil, ErrWithdrawalNotFound
	}
	if !input.Amount.IsPositive() {
		return nil, ErrWithdrawalAmountInvalid
	}
	method := strings.ToLower(strings.TrimSpace(input.Method))
	switch method {
	case constants.WithdrawalMethodPix:
		if strings.TrimSpace(input.PixKey) == "" {
			return nil, ErrWithdrawalInputInvalid
		}
	case constants.WithdrawalMethodCrypto:
		if strings.TrimSpace(input.CryptoCoin) == "" || strings.TrimSpace(input.CryptoNetwork) == "" {
			return nil, ErrCryptoDetailsRequired
		}
		if strings.TrimSpace(input.WalletAddress) == "" {
			return nil, ErrWithdrawalInputInvalid
		}
	default:
		return nil, ErrWithdrawalMethodInvalid
	}

	var request *models.WithdrawalRequest
	err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		affiliateRepo := s.affiliateRepo.WithTx(tx)
		withdrawalRepo := s.repo.WithTx(tx)

		affiliate, err := affiliateRepo.GetByCodeForUpdate(input.AffiliateCode)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}
		if !affiliate.IsActive {
			return ErrAffiliateDisabled
		}

		if input.Amount.GreaterThan(affiliate.TotalEarnings.Decimal) {
			return ErrWithdrawalInsufficient
		}

		request = &models.WithdrawalRequest{
			AffiliateCode: affiliate.AffiliateCode,
			Amount:        models.NewMoneyFromDecimal(input.Amount),
			Method:        method,
			PixKey:        strings.TrimSpace(input.PixKey),
			CryptoCoin:    strings.ToUpper(strings.TrimSpace(input.CryptoCoin)),
			CryptoNetwork: strings.ToUpper(strings.TrimSpace(input.CryptoNetwork)),
			WalletAddress: strings.TrimSpace(input.WalletAddress),
			Status:        constants.WithdrawalStatusPending,
		}
		return withdrawalRepo.Create(request)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.NotifyStaff(context.Background(),
		constants.WebhookEventWithdrawRequest, notify.BuildWithdrawalRequested(request))
	return request, nil
}

// SetStatus moves a request through the state machine. Reaching
// completed debits the affiliate balance atomically with the status
// write; the balance is re-checked under the lock so a stale approval
// cannot overdraw.
func (s *WithdrawalService) SetStatus(id uint, rawStatus, notes, processedBy string) (*models.WithdrawalRequest, error) {
	if s == nil || s.repo == nil || s.affiliateRepo == nil {
		return nil, ErrWithdrawalNotFound
	}
	status := strings.ToLower(strings.TrimSpace(rawStatus))
	switch status {
	case constants.WithdrawalStatusApproved,
		constants.WithdrawalStatusCompleted,
		constants.WithdrawalStatusRejected:
	default:
		return nil, ErrWithdrawalStatusInvalid
	}

	var updated *models.WithdrawalRequest
	err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		affiliateRepo := s.affiliateRepo.WithTx(tx)
		withdrawalRepo := s.repo.WithTx(tx)

		request, err := withdrawalRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if request == nil {
			return ErrWithdrawalNotFound
		}
		if !isWithdrawalTransitionAllowed(request.Status, status) {
			return ErrWithdrawalTransitionInvalid
		}

		now := time.Now()
		if status == constants.WithdrawalStatusCompleted {
			affiliate, err := affiliateRepo.GetByCodeForUpdate(request.AffiliateCode)
			if err != nil {
				return err
			}
			if affiliate == nil {
				return ErrAffiliateNotFound
			}
			if request.Amount.Decimal.GreaterThan(affiliate.TotalEarnings.Decimal) {
				return ErrWithdrawalInsufficient
			}
			if err := affiliateRepo.RecordWithdrawalCompleted(
				request.AffiliateCode, request.Amount.Decimal, now); err != nil {
				return err
			}
		}

		request.Status = status
		if trimmed := strings.TrimSpace(notes); trimmed != "" {
			request.Notes = trimmed
		}
		if status == constants.WithdrawalStatusCompleted || status == constants.WithdrawalStatusRejected {
			request.ProcessedAt = &now
			request.ProcessedBy = strings.TrimSpace(processedBy)
		}
		if err := withdrawalRepo.Update(request); err != nil {
			return err
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	message := notify.BuildWithdrawalStatusChanged(updated)
	if affiliate, err := s.affiliateRepo.GetByCode(updated.AffiliateCode); err == nil && affiliate != nil {
		s.dispatcher.Notify(context.Background(), constants.WebhookEventWithdrawStatus, affiliate.DiscordWebhookURL, message)
	}
	s.dispatcher.NotifyStaff(context.Background(), constants.WebhookEventWithdrawStatus, message)
	return updated, nil
}

// GetRequest fetches a request by id.
func (s *WithdrawalService) GetRequest(id uint) (*models.WithdrawalRequest, error) {
	if s == nil || s.repo == nil {
		return nil, ErrWithdrawalNotFound
	}
	request, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrWithdrawalNotFound
	}
	return request, nil
}

// ListRequests queries payout requests.
func (s *WithdrawalService) ListRequests(filter repository.WithdrawalListFilter) ([]models.WithdrawalRequest, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrWithdrawalNotFound
	}
	return s.repo.List(filter)
}

func isWithdrawalTransitionAllowed(from, to string) bool {
	for _, allowed := range withdrawalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
