package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/repository"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db := openServiceTestDB(t, "auth_service")
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:   "test-secret",
			ExpireHours: 24,
		},
	}
	svc := NewAuthService(
		cfg,
		repository.NewOTPRepository(db),
		repository.NewAdminRepository(db),
		repository.NewAffiliateRepository(db),
	)
	return svc, db
}

func createTestAdmin(t *testing.T, db *gorm.DB, discordID string) {
	t.Helper()

	row := models.AdminConfig{
		DiscordID: discordID,
		Name:      "operator",
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestIssueOTPUnknownAccount(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	if _, err := svc.IssueOTP(context.Background(), "discord-stranger"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestOTPLoginRoundTrip(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	affiliate := createTestAffiliate(t, db, "AUTH1111", 30, "")

	result, err := svc.IssueOTP(context.Background(), affiliate.DiscordID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if len(result.Code) != constants.OTPCodeLength {
		t.Fatalf("expected %d digit code, got %q", constants.OTPCodeLength, result.Code)
	}
	for _, r := range result.Code {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric code, got %q", result.Code)
		}
	}
	if result.ExpiresAt.Before(time.Now()) {
		t.Fatalf("expected future expiry, got %v", result.ExpiresAt)
	}

	var record models.OTPCode
	if err := db.Where("discord_id = ?", affiliate.DiscordID).First(&record).Error; err != nil {
		t.Fatalf("load otp record failed: %v", err)
	}
	if record.CodeHash == result.Code {
		t.Fatal("code must not be stored in the clear")
	}

	token, expiresAt, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, result.Code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if token == "" || expiresAt.Before(time.Now()) {
		t.Fatalf("expected a live token, got %q expiring %v", token, expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.DiscordID != affiliate.DiscordID {
		t.Fatalf("expected discord id %s, got %s", affiliate.DiscordID, claims.DiscordID)
	}
	if claims.Role != constants.AuthRoleAffiliate {
		t.Fatalf("expected affiliate role, got %s", claims.Role)
	}
	if claims.AffiliateCode != "AUTH1111" {
		t.Fatalf("expected affiliate code in claims, got %q", claims.AffiliateCode)
	}

	// Codes are single use.
	if _, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, result.Code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expected ErrOTPNotFound on reuse, got %v", err)
	}
}

func TestVerifyOTPWrongCodeAttempts(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	affiliate := createTestAffiliate(t, db, "AUTH2222", 30, "")

	result, err := svc.IssueOTP(context.Background(), affiliate.DiscordID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	bad := wrongCode(result.Code)

	for i := 0; i < constants.OTPMaxAttempts-1; i++ {
		if _, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, bad); !errors.Is(err, ErrOTPInvalid) {
			t.Fatalf("attempt %d: expected ErrOTPInvalid, got %v", i+1, err)
		}
	}
	if _, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, bad); !errors.Is(err, ErrOTPTooManyAttempts) {
		t.Fatalf("expected ErrOTPTooManyAttempts, got %v", err)
	}

	// The correct code is dead too once the attempts are burned.
	if _, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, result.Code); !errors.Is(err, ErrOTPTooManyAttempts) {
		t.Fatalf("expected ErrOTPTooManyAttempts for correct code, got %v", err)
	}
}

func TestIssueOTPInvalidatesPrevious(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	affiliate := createTestAffiliate(t, db, "AUTH3333", 30, "")

	first, err := svc.IssueOTP(context.Background(), affiliate.DiscordID)
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	second, err := svc.IssueOTP(context.Background(), affiliate.DiscordID)
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}

	if first.Code != second.Code {
		if _, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, first.Code); err == nil {
			t.Fatal("expected stale code to be rejected")
		}
	}
	if _, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, second.Code); err != nil {
		t.Fatalf("fresh code rejected: %v", err)
	}
}

func TestExpiredOTPNotFound(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	affiliate := createTestAffiliate(t, db, "AUTH4444", 30, "")

	result, err := svc.IssueOTP(context.Background(), affiliate.DiscordID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if err := db.Model(&models.OTPCode{}).
		Where("discord_id = ?", affiliate.DiscordID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("expire record failed: %v", err)
	}

	if _, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, result.Code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expected ErrOTPNotFound, got %v", err)
	}
}

func TestAdminRoleWinsOverAffiliate(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	affiliate := createTestAffiliate(t, db, "AUTH5555", 30, "")
	createTestAdmin(t, db, affiliate.DiscordID)

	result, err := svc.IssueOTP(context.Background(), affiliate.DiscordID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	token, _, err := svc.VerifyOTP(context.Background(), affiliate.DiscordID, result.Code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Role != constants.AuthRoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}

	var admin models.AdminConfig
	if err := db.Where("discord_id = ?", affiliate.DiscordID).First(&admin).Error; err != nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if admin.LastLoginAt == nil {
		t.Fatal("expected last_login_at to be stamped")
	}
}

func TestInactiveAffiliateUnauthorized(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	affiliate := createTestAffiliate(t, db, "AUTH6666", 30, "")
	if err := db.Model(&models.Affiliate{}).
		Where("discord_id = ?", affiliate.DiscordID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := svc.IssueOTP(context.Background(), affiliate.DiscordID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	if _, err := svc.ParseJWT("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
