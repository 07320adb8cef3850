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

func setupWithdrawalServiceTest(t *testing.T) (*WithdrawalService, *gorm.DB) {
	t.Helper()

	db := openServiceTestDB(t, "withdrawal_service")
	svc := NewWithdrawalService(
		repository.NewWithdrawalRepository(db),
		repository.NewAffiliateRepository(db),
		newTestDispatcher(),
	)
	return svc, db
}

func TestRequestWithdrawalPix(t *testing.T) {
	svc, db := setupWithdrawalServiceTest(t)
	createTestAffiliate(t, db, "WAAA1111", 30, "")
	setAffiliateEarnings(t, db, "WAAA1111", 500)

	request, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "waaa1111",
		Amount:        decimal.NewFromInt(300),
		Method:        "pix",
		PixKey:        "chave@pix.br",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if request.Status != constants.WithdrawalStatusPending {
		t.Fatalf("expected pending status, got %s", request.Status)
	}
	if request.AffiliateCode != "WAAA1111" {
		t.Fatalf("expected normalized code, got %s", request.AffiliateCode)
	}
	if !request.Amount.Decimal.Equal(mustDecimal(t, "300")) {
		t.Fatalf("expected amount 300, got %s", request.Amount)
	}

	// Requesting does not debit, only completion does.
	affiliate := reloadAffiliate(t, db, "WAAA1111")
	if !affiliate.TotalEarnings.Decimal.Equal(mustDecimal(t, "500")) {
		t.Fatalf("expected balance untouched, got %s", affiliate.TotalEarnings)
	}
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	svc, db := setupWithdrawalServiceTest(t)
	createTestAffiliate(t, db, "WBBB2222", 30, "")
	setAffiliateEarnings(t, db, "WBBB2222", 300)

	_, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "WBBB2222",
		Amount:        decimal.NewFromInt(500),
		Method:        "pix",
		PixKey:        "chave",
	})
	if !errors.Is(err, ErrWithdrawalInsufficient) {
		t.Fatalf("expected ErrWithdrawalInsufficient, got %v", err)
	}
}

func TestRequestWithdrawalValidation(t *testing.T) {
	svc, db := setupWithdrawalServiceTest(t)
	createTestAffiliate(t, db, "WCCC3333", 30, "")
	setAffiliateEarnings(t, db, "WCCC3333", 1000)

	cases := []struct {
		name  string
		input WithdrawalRequestInput
		want  error
	}{
		{
			name: "zero amount",
			input: WithdrawalRequestInput{
				AffiliateCode: "WCCC3333",
				Amount:        decimal.Zero,
				Method:        "pix",
				PixKey:        "chave",
			},
			want: ErrWithdrawalAmountInvalid,
		},
		{
			name: "unknown method",
			input: WithdrawalRequestInput{
				AffiliateCode: "WCCC3333",
				Amount:        decimal.NewFromInt(100),
				Method:        "cheque",
			},
			want: ErrWithdrawalMethodInvalid,
		},
		{
			name: "pix without key",
			input: WithdrawalRequestInput{
				AffiliateCode: "WCCC3333",
				Amount:        decimal.NewFromInt(100),
				Method:        "pix",
			},
			want: ErrWithdrawalInputInvalid,
		},
		{
			name: "crypto without network",
			input: WithdrawalRequestInput{
				AffiliateCode: "WCCC3333",
				Amount:        decimal.NewFromInt(100),
				Method:        "crypto",
				CryptoCoin:    "USDT",
				WalletAddress: "0xabc",
			},
			want: ErrCryptoDetailsRequired,
		},
		{
			name: "crypto without wallet",
			input: WithdrawalRequestInput{
				AffiliateCode: "WCCC3333",
				Amount:        decimal.NewFromInt(100),
				Method:        "crypto",
				CryptoCoin:    "USDT",
				CryptoNetwork: "TRC20",
			},
			want: ErrWithdrawalInputInvalid,
		},
	}
	for _, tc := range cases {
		if _, err := svc.Request(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRequestWithdrawalAllowsMultipleOpen(t *testing.T) {
	svc, db := setupWithdrawalServiceTest(t)
	createTestAffiliate(t, db, "WDDD4444", 30, "")
	setAffiliateEarnings(t, db, "WDDD4444", 1000)

	first, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "WDDD4444",
		Amount:        decimal.NewFromInt(400),
		Method:        "pix",
		PixKey:        "chave",
	})
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	// A second pending request is fine; overdraw protection lives in
	// the completion-time balance re-check, not at intake.
	second, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "WDDD4444",
		Amount:        decimal.NewFromInt(400),
		Method:        "pix",
		PixKey:        "chave",
	})
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("expected two distinct requests")
	}

	if _, err := svc.SetStatus(first.ID, constants.WithdrawalStatusCompleted, "", "admin-1"); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if _, err := svc.SetStatus(second.ID, constants.WithdrawalStatusCompleted, "", "admin-1"); err != nil {
		t.Fatalf("second completion failed: %v", err)
	}

	// A third request against the drained balance still fails.
	if _, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "WDDD4444",
		Amount:        decimal.NewFromInt(400),
		Method:        "pix",
		PixKey:        "chave",
	}); !errors.Is(err, ErrWithdrawalInsufficient) {
		t.Fatalf("expected ErrWithdrawalInsufficient, got %v", err)
	}
}

func TestSetStatusCompleteDebitsBalance(t *testing.T) {
	svc, db := setupWithdrawalServiceTest(t)
	createTestAffiliate(t, db, "WEEE5555", 30, "")
	setAffiliateEarnings(t, db, "WEEE5555", 500)

	request, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "WEEE5555",
		Amount:        decimal.NewFromInt(300),
		Method:        "crypto",
		CryptoCoin:    "usdt",
		CryptoNetwork: "trc20",
		WalletAddress: "TXabcdef",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	approved, err := svc.SetStatus(request.ID, constants.WithdrawalStatusApproved, "", "admin-1")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != constants.WithdrawalStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.ProcessedAt != nil {
		t.Fatal("approval must not stamp processed_at")
	}

	completed, err := svc.SetStatus(request.ID, constants.WithdrawalStatusCompleted, "", "admin-1")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.ProcessedAt == nil || completed.ProcessedBy != "admin-1" {
		t.Fatalf("expected processing stamp, got %v / %q", completed.ProcessedAt, completed.ProcessedBy)
	}

	affiliate := reloadAffiliate(t, db, "WEEE5555")
	if !affiliate.TotalEarnings.Decimal.Equal(mustDecimal(t, "200")) {
		t.Fatalf("expected balance 200 after payout, got %s", affiliate.TotalEarnings)
	}
}

func TestSetStatusCompleteRechecksBalance(t *testing.T) {
	svc, db := setupWithdrawalServiceTest(t)
	createTestAffiliate(t, db, "WFFF6666", 30, "")
	setAffiliateEarnings(t, db, "WFFF6666", 500)

	request, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "WFFF6666",
		Amount:        decimal.NewFromInt(400),
		Method:        "pix",
		PixKey:        "chave",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Balance shrinks between approval and completion.
	setAffiliateEarnings(t, db, "WFFF6666", 100)

	if _, err := svc.SetStatus(request.ID, constants.WithdrawalStatusCompleted, "", "admin-1"); !errors.Is(err, ErrWithdrawalInsufficient) {
		t.Fatalf("expected ErrWithdrawalInsufficient, got %v", err)
	}

	affiliate := reloadAffiliate(t, db, "WFFF6666")
	if !affiliate.TotalEarnings.Decimal.Equal(mustDecimal(t, "100")) {
		t.Fatalf("expected balance untouched, got %s", affiliate.TotalEarnings)
	}

	var row models.WithdrawalRequest
	if err := db.First(&row, request.ID).Error; err != nil {
		t.Fatalf("reload request failed: %v", err)
	}
	if row.Status != constants.WithdrawalStatusPending {
		t.Fatalf("expected status rolled back to pending, got %s", row.Status)
	}
}

func TestSetStatusTransitions(t *testing.T) {
	svc, db := setupWithdrawalServiceTest(t)
	createTestAffiliate(t, db, "WGGG7777", 30, "")
	setAffiliateEarnings(t, db, "WGGG7777", 1000)

	request, err := svc.Request(WithdrawalRequestInput{
		AffiliateCode: "WGGG7777",
		Amount:        decimal.NewFromInt(100),
		Method:        "pix",
		PixKey:        "chave",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if _, err := svc.SetStatus(request.ID, "paused", "", "admin-1"); !errors.Is(err, ErrWithdrawalStatusInvalid) {
		t.Fatalf("expected ErrWithdrawalStatusInvalid, got %v", err)
	}
	if _, err := svc.SetStatus(request.ID, constants.WithdrawalStatusPending, "", "admin-1"); !errors.Is(err, ErrWithdrawalStatusInvalid) {
		t.Fatalf("expected pending to be refused as a target status, got %v", err)
	}

	if _, err := svc.SetStatus(request.ID, constants.WithdrawalStatusCompleted, "", "admin-1"); err != nil {
		t.Fatalf("pending->completed should be allowed: %v", err)
	}
	if _, err := svc.SetStatus(request.ID, constants.WithdrawalStatusApproved, "", "admin-1"); !errors.Is(err, ErrWithdrawalTransitionInvalid) {
		t.Fatalf("expected terminal state to refuse transitions, got %v", err)
	}
	if _, err := svc.SetStatus(request.ID, constants.WithdrawalStatusCompleted, "", "admin-1"); !errors.Is(err, ErrWithdrawalTransitionInvalid) {
		t.Fatalf("expected double completion to fail, got %v", err)
	}

	affiliate := reloadAffiliate(t, db, "WGGG7777")
	if !affiliate.TotalEarnings.Decimal.Equal(mustDecimal(t, "900")) {
		t.Fatalf("expected a single debit, got %s", affiliate.TotalEarnings)
	}
}
