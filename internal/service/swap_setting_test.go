package service

import (
	"errors"
	"testing"

	"github.com/vultos-swap/internal/repository"
)

func setupSettingServiceTest(t *testing.T) *SettingService {
	t.Helper()

	db := openServiceTestDB(t, "setting_service")
	return NewSettingService(repository.NewSettingRepository(db), testSwapConfig())
}

func TestEstimateFeePercentMidpoint(t *testing.T) {
	cases := []struct {
		min, max, want float64
	}{
		{10, 15, 12.5},
		{10, 10, 10},
		{0, 100, 50},
		{12.3, 12.4, 12.35},
	}
	for _, tc := range cases {
		got := SwapSetting{MinFee: tc.min, MaxFee: tc.max}.EstimateFeePercent()
		if got != tc.want {
			t.Fatalf("midpoint of %v..%v: expected %v, got %v", tc.min, tc.max, tc.want, got)
		}
	}
}

func TestNormalizeSwapSettingClamps(t *testing.T) {
	normalized := NormalizeSwapSetting(SwapSetting{
		AffiliateCommission: 150,
		CascadeCommission:   -5,
		MinFee:              20,
		MaxFee:              5,
		MinTransaction:      -10,
	})
	if normalized.AffiliateCommission != 100 {
		t.Fatalf("expected commission clamped to 100, got %v", normalized.AffiliateCommission)
	}
	if normalized.CascadeCommission != 0 {
		t.Fatalf("expected cascade clamped to 0, got %v", normalized.CascadeCommission)
	}
	if normalized.MaxFee != normalized.MinFee {
		t.Fatalf("expected fee band collapsed, got %v..%v", normalized.MinFee, normalized.MaxFee)
	}
	if normalized.MinTransaction != 0 {
		t.Fatalf("expected min transaction floored at 0, got %v", normalized.MinTransaction)
	}
}

func TestValidateSwapSetting(t *testing.T) {
	valid := SwapSetting{
		AffiliateCommission: 30,
		CascadeCommission:   10,
		MinFee:              10,
		MaxFee:              15,
		MinTransaction:      100,
	}
	if err := ValidateSwapSetting(valid); err != nil {
		t.Fatalf("expected valid setting, got %v", err)
	}

	invalid := []SwapSetting{
		{AffiliateCommission: 101, CascadeCommission: 10, MinFee: 10, MaxFee: 15},
		{AffiliateCommission: 30, CascadeCommission: -1, MinFee: 10, MaxFee: 15},
		{AffiliateCommission: 30, CascadeCommission: 10, MinFee: 15, MaxFee: 10},
		{AffiliateCommission: 30, CascadeCommission: 10, MinFee: 10, MaxFee: 15, MinTransaction: -1},
	}
	for i, setting := range invalid {
		if err := ValidateSwapSetting(setting); !errors.Is(err, ErrSwapConfigInvalid) {
			t.Fatalf("case %d: expected ErrSwapConfigInvalid, got %v", i, err)
		}
	}
}

func TestGetSwapSettingFallsBackToConfig(t *testing.T) {
	svc := setupSettingServiceTest(t)

	setting, err := svc.GetSwapSetting()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if setting.AffiliateCommission != 30 || setting.CascadeCommission != 10 {
		t.Fatalf("expected config defaults, got %+v", setting)
	}
	if setting.MinFee != 10 || setting.MaxFee != 15 || setting.MinTransaction != 100 {
		t.Fatalf("expected config fee band, got %+v", setting)
	}
}

func TestUpdateSwapSettingRoundTrip(t *testing.T) {
	svc := setupSettingServiceTest(t)

	updated, err := svc.UpdateSwapSetting(SwapSetting{
		AffiliateCommission: 25,
		CascadeCommission:   8,
		MinFee:              11,
		MaxFee:              14,
		MinTransaction:      250,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.AffiliateCommission != 25 {
		t.Fatalf("expected commission 25, got %v", updated.AffiliateCommission)
	}

	reloaded, err := svc.GetSwapSetting()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded != updated {
		t.Fatalf("expected %+v after reload, got %+v", updated, reloaded)
	}
	if reloaded.EstimateFeePercent() != 12.5 {
		t.Fatalf("expected midpoint 12.5, got %v", reloaded.EstimateFeePercent())
	}
}

func TestUpdateSwapSettingNormalizesInput(t *testing.T) {
	svc := setupSettingServiceTest(t)

	updated, err := svc.UpdateSwapSetting(SwapSetting{
		AffiliateCommission: 150,
		CascadeCommission:   10,
		MinFee:              15,
		MaxFee:              10,
		MinTransaction:      -50,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.AffiliateCommission != 100 {
		t.Fatalf("expected commission clamped to 100, got %v", updated.AffiliateCommission)
	}
	if updated.MaxFee != 15 || updated.MinFee != 15 {
		t.Fatalf("expected fee band collapsed at 15, got %v..%v", updated.MinFee, updated.MaxFee)
	}
	if updated.MinTransaction != 0 {
		t.Fatalf("expected min transaction floored at 0, got %v", updated.MinTransaction)
	}
}
