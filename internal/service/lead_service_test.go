package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/repository"
	"gorm.io/gorm"
)

func setupLeadServiceTest(t *testing.T) (*LeadService, *gorm.DB) {
	t.Helper()

	db := openServiceTestDB(t, "lead_service")
	settingService := NewSettingService(repository.NewSettingRepository(db), testSwapConfig())
	svc := NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewAffiliateRepository(db),
		settingService,
		newTestDispatcher(),
	)
	return svc, db
}

func TestCreateLeadSnapshotsRatesAndCreditsPending(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "AAAA2222", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "aaaa2222",
		ClientDiscordID:  "client-1",
		ClientName:       "Cliente Um",
		ServiceType:      "swap",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	if lead.LeadCode == "" {
		t.Fatal("expected a lead code")
	}
	if lead.AffiliateCode != "AAAA2222" {
		t.Fatalf("expected normalized code AAAA2222, got %s", lead.AffiliateCode)
	}
	if lead.Status != constants.LeadStatusPending {
		t.Fatalf("expected pending status, got %s", lead.Status)
	}
	if !lead.FeePercent.Decimal.Equal(mustDecimal(t, "12.5")) {
		t.Fatalf("expected estimate fee 12.5, got %s", lead.FeePercent)
	}
	if !lead.TotalProfit.Decimal.Equal(mustDecimal(t, "125")) {
		t.Fatalf("expected total profit 125, got %s", lead.TotalProfit)
	}
	if !lead.AffiliateCommission.Decimal.Equal(mustDecimal(t, "37.5")) {
		t.Fatalf("expected affiliate commission 37.5, got %s", lead.AffiliateCommission)
	}
	if !lead.CompanyProfit.Decimal.Equal(mustDecimal(t, "87.5")) {
		t.Fatalf("expected company profit 87.5, got %s", lead.CompanyProfit)
	}

	affiliate := reloadAffiliate(t, db, "AAAA2222")
	if !affiliate.PendingEarnings.Decimal.Equal(mustDecimal(t, "37.5")) {
		t.Fatalf("expected pending earnings 37.5, got %s", affiliate.PendingEarnings)
	}
	if !affiliate.TotalEarnings.Decimal.IsZero() {
		t.Fatalf("expected zero earned balance before confirmation, got %s", affiliate.TotalEarnings)
	}
}

func TestCreateLeadFreezesCascadeFromRecruiter(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "RECR1111", 30, "")
	createTestAffiliate(t, db, "BBBB3333", 40, "RECR1111")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "BBBB3333",
		ClientDiscordID:  "client-2",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	if lead.CascadeCode != "RECR1111" {
		t.Fatalf("expected cascade code RECR1111, got %q", lead.CascadeCode)
	}
	if !lead.CascadePercent.Decimal.Equal(mustDecimal(t, "10")) {
		t.Fatalf("expected cascade percent 10, got %s", lead.CascadePercent)
	}
	if !lead.CascadeCommission.Decimal.Equal(mustDecimal(t, "25")) {
		t.Fatalf("expected cascade commission 25, got %s", lead.CascadeCommission)
	}
}

func TestCreateLeadInactiveRecruiterDropsCascade(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "RECR2222", 30, "")
	createTestAffiliate(t, db, "CCCC4444", 30, "RECR2222")
	if err := db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", "RECR2222").
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate recruiter failed: %v", err)
	}

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "CCCC4444",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}
	if lead.CascadeCode != "" {
		t.Fatalf("expected empty cascade code, got %q", lead.CascadeCode)
	}
	if !lead.CascadeCommission.Decimal.IsZero() {
		t.Fatalf("expected zero cascade commission, got %s", lead.CascadeCommission)
	}
}

func TestCreateLeadUnknownAffiliateZeroedSplit(t *testing.T) {
	svc, db := setupLeadServiceTest(t)

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "NOPE9999",
		ClientDiscordID:  "client-3",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}
	if lead.Status != constants.LeadStatusPending {
		t.Fatalf("expected pending status, got %s", lead.Status)
	}
	if !lead.AffiliateCommission.Decimal.IsZero() || !lead.TotalProfit.Decimal.IsZero() {
		t.Fatalf("expected zeroed split, got commission %s profit %s",
			lead.AffiliateCommission, lead.TotalProfit)
	}

	var count int64
	if err := db.Model(&models.Lead{}).Count(&count).Error; err != nil {
		t.Fatalf("count leads failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the ticket to be stored, got %d rows", count)
	}
}

func TestCreateLeadBelowMinimumRejected(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "DDDD5555", 30, "")

	_, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "DDDD5555",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(99),
	})
	if !errors.Is(err, ErrTransactionTooSmall) {
		t.Fatalf("expected ErrTransactionTooSmall, got %v", err)
	}
}

func TestCreateLeadRejectsUnknownServiceType(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "EEEE6666", 30, "")

	_, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "EEEE6666",
		ServiceType:      "loan",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(500),
	})
	if !errors.Is(err, ErrLeadServiceTypeInvalid) {
		t.Fatalf("expected ErrLeadServiceTypeInvalid, got %v", err)
	}
}

func TestConfirmSaleSettlesLedger(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "RECR3333", 30, "")
	createTestAffiliate(t, db, "FFFF7777", 40, "RECR3333")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "FFFF7777",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	confirmed, err := svc.ConfirmSale(lead.ID, decimal.Zero, decimal.NewFromInt(10), "admin-1")
	if err != nil {
		t.Fatalf("confirm sale failed: %v", err)
	}
	if confirmed.Status != constants.LeadStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", confirmed.Status)
	}
	if confirmed.ConfirmedAt == nil || confirmed.ConfirmedBy != "admin-1" {
		t.Fatalf("expected confirmation stamp, got %v / %q", confirmed.ConfirmedAt, confirmed.ConfirmedBy)
	}
	if !confirmed.TotalProfit.Decimal.Equal(mustDecimal(t, "200")) {
		t.Fatalf("expected final profit 200, got %s", confirmed.TotalProfit)
	}
	if !confirmed.AffiliateCommission.Decimal.Equal(mustDecimal(t, "80")) {
		t.Fatalf("expected final commission 80, got %s", confirmed.AffiliateCommission)
	}
	if !confirmed.CascadeCommission.Decimal.Equal(mustDecimal(t, "20")) {
		t.Fatalf("expected cascade commission 20, got %s", confirmed.CascadeCommission)
	}
	if !confirmed.CompanyProfit.Decimal.Equal(mustDecimal(t, "100")) {
		t.Fatalf("expected company profit 100, got %s", confirmed.CompanyProfit)
	}

	seller := reloadAffiliate(t, db, "FFFF7777")
	if seller.TotalSales != 1 {
		t.Fatalf("expected 1 sale, got %d", seller.TotalSales)
	}
	if !seller.TotalEarnings.Decimal.Equal(mustDecimal(t, "80")) {
		t.Fatalf("expected earned 80, got %s", seller.TotalEarnings)
	}
	if !seller.PendingEarnings.Decimal.IsZero() {
		t.Fatalf("expected pending cleared, got %s", seller.PendingEarnings)
	}

	recruiter := reloadAffiliate(t, db, "RECR3333")
	if !recruiter.CascadeEarnings.Decimal.Equal(mustDecimal(t, "20")) {
		t.Fatalf("expected cascade earnings 20, got %s", recruiter.CascadeEarnings)
	}
	if !recruiter.TotalEarnings.Decimal.Equal(mustDecimal(t, "20")) {
		t.Fatalf("expected cascade credit in total earnings, got %s", recruiter.TotalEarnings)
	}
}

func TestConfirmSaleTwiceFails(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "GGGG8888", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "GGGG8888",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}
	if _, err := svc.ConfirmSale(lead.ID, decimal.Zero, decimal.NewFromInt(12), "admin-1"); err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}
	if _, err := svc.ConfirmSale(lead.ID, decimal.Zero, decimal.NewFromInt(12), "admin-1"); !errors.Is(err, ErrLeadAlreadyConfirmed) {
		t.Fatalf("expected ErrLeadAlreadyConfirmed, got %v", err)
	}

	affiliate := reloadAffiliate(t, db, "GGGG8888")
	if affiliate.TotalSales != 1 {
		t.Fatalf("expected a single credited sale, got %d", affiliate.TotalSales)
	}
}

func TestConfirmSaleFeeOutOfRange(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "HHHH9999", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "HHHH9999",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	if _, err := svc.ConfirmSale(lead.ID, decimal.Zero, decimal.NewFromInt(9), "admin-1"); !errors.Is(err, ErrFeeOutOfRange) {
		t.Fatalf("expected ErrFeeOutOfRange for 9, got %v", err)
	}
	if _, err := svc.ConfirmSale(lead.ID, decimal.Zero, decimal.NewFromInt(16), "admin-1"); !errors.Is(err, ErrFeeOutOfRange) {
		t.Fatalf("expected ErrFeeOutOfRange for 16, got %v", err)
	}
}

func TestConfirmSalePendingNeverGoesNegative(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "JJJJ2345", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "JJJJ2345",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	// Knock the pending balance below the estimate before settling.
	if err := db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", "JJJJ2345").
		Update("pending_earnings", models.NewMoneyFromFloat(5)).Error; err != nil {
		t.Fatalf("seed pending failed: %v", err)
	}

	if _, err := svc.ConfirmSale(lead.ID, decimal.Zero, decimal.NewFromInt(12), "admin-1"); err != nil {
		t.Fatalf("confirm sale failed: %v", err)
	}
	affiliate := reloadAffiliate(t, db, "JJJJ2345")
	if affiliate.PendingEarnings.Decimal.IsNegative() {
		t.Fatalf("pending went negative: %s", affiliate.PendingEarnings)
	}
	if !affiliate.PendingEarnings.Decimal.IsZero() {
		t.Fatalf("expected pending clamped at zero, got %s", affiliate.PendingEarnings)
	}
}

func TestGetLeadByCode(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "KKKK3456", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "KKKK3456",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	got, err := svc.GetLeadByCode(lead.LeadCode)
	if err != nil {
		t.Fatalf("get lead failed: %v", err)
	}
	if got.ID != lead.ID {
		t.Fatalf("expected lead %d, got %d", lead.ID, got.ID)
	}

	if _, err := svc.GetLeadByCode("missing-code"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestCreateLeadWithQuotedFee(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "LLLL4567", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "LLLL4567",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
		FeePercent:       decimal.NewFromInt(12),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	if !lead.FeePercent.Decimal.Equal(mustDecimal(t, "12")) {
		t.Fatalf("expected quoted fee 12, got %s", lead.FeePercent)
	}
	if !lead.TotalProfit.Decimal.Equal(mustDecimal(t, "120")) {
		t.Fatalf("expected total profit 120, got %s", lead.TotalProfit)
	}
	if !lead.AffiliateCommission.Decimal.Equal(mustDecimal(t, "36")) {
		t.Fatalf("expected affiliate commission 36, got %s", lead.AffiliateCommission)
	}

	affiliate := reloadAffiliate(t, db, "LLLL4567")
	if !affiliate.PendingEarnings.Decimal.Equal(mustDecimal(t, "36")) {
		t.Fatalf("expected pending earnings 36, got %s", affiliate.PendingEarnings)
	}

	if _, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "LLLL4567",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
		FeePercent:       decimal.NewFromInt(9),
	}); !errors.Is(err, ErrFeeOutOfRange) {
		t.Fatalf("expected ErrFeeOutOfRange for quoted fee 9, got %v", err)
	}
}

func TestCreateLeadRequiresCodeAndCoin(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "MMMM5678", 30, "")

	if _, err := svc.CreateLead(LeadCreateInput{
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(500),
	}); !errors.Is(err, ErrLeadInputInvalid) {
		t.Fatalf("expected ErrLeadInputInvalid without a code, got %v", err)
	}

	if _, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "MMMM5678",
		TransactionValue: decimal.NewFromInt(500),
	}); !errors.Is(err, ErrCryptoCoinRequired) {
		t.Fatalf("expected ErrCryptoCoinRequired without a coin, got %v", err)
	}
}

func TestConfirmSaleWithFinalValue(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "NNNN6789", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "NNNN6789",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	confirmed, err := svc.ConfirmSale(lead.ID, decimal.NewFromInt(2000), decimal.NewFromInt(12), "admin-1")
	if err != nil {
		t.Fatalf("confirm sale failed: %v", err)
	}
	if !confirmed.TransactionValue.Decimal.Equal(mustDecimal(t, "2000")) {
		t.Fatalf("expected settled value 2000, got %s", confirmed.TransactionValue)
	}
	if !confirmed.TotalProfit.Decimal.Equal(mustDecimal(t, "240")) {
		t.Fatalf("expected profit 240 on the final value, got %s", confirmed.TotalProfit)
	}
	if !confirmed.AffiliateCommission.Decimal.Equal(mustDecimal(t, "72")) {
		t.Fatalf("expected commission 72, got %s", confirmed.AffiliateCommission)
	}

	affiliate := reloadAffiliate(t, db, "NNNN6789")
	if !affiliate.TotalEarnings.Decimal.Equal(mustDecimal(t, "72")) {
		t.Fatalf("expected earned 72, got %s", affiliate.TotalEarnings)
	}
}

func TestConfirmSaleRejectsNegativeFinalValue(t *testing.T) {
	svc, db := setupLeadServiceTest(t)
	createTestAffiliate(t, db, "PPPP7890", 30, "")

	lead, err := svc.CreateLead(LeadCreateInput{
		AffiliateCode:    "PPPP7890",
		CryptoCoin:       "usdt",
		TransactionValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create lead failed: %v", err)
	}

	if _, err := svc.ConfirmSale(lead.ID, decimal.NewFromInt(-200), decimal.NewFromInt(12), "admin-1"); !errors.Is(err, ErrLeadInputInvalid) {
		t.Fatalf("expected ErrLeadInputInvalid, got %v", err)
	}
}
