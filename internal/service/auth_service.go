package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/vultos-swap/internal/cache"
	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles OTP login for Discord accounts and JWT issuance.
type AuthService struct {
	cfg           *config.Config
	otpRepo       repository.OTPRepository
	adminRepo     repository.AdminRepository
	affiliateRepo repository.AffiliateRepository
}

// NewAuthService creates the auth service.
func NewAuthService(
	cfg *config.Config,
	otpRepo repository.OTPRepository,
	adminRepo repository.AdminRepository,
	affiliateRepo repository.AffiliateRepository,
) *AuthService {
	return &AuthService{
		cfg:           cfg,
		otpRepo:       otpRepo,
		adminRepo:     adminRepo,
		affiliateRepo: affiliateRepo,
	}
}

// JWTClaims are the token claims.
type JWTClaims struct {
	DiscordID     string `json:"discord_id"`
	AffiliateCode string `json:"affiliate_code,omitempty"`
	Role          string `json:"role"`
	jwt.RegisteredClaims
}

// OTPResult is handed to the Discord bot for delivery to the user.
// The clear code never touches storage.
type OTPResult struct {
	Code      string
	ExpiresAt time.Time
}

// IssueOTP creates a login code for a Discord account. The account
// must belong to a registered affiliate or staff operator, and issuing
// is throttled per account.
func (s *AuthService) IssueOTP(ctx context.Context, discordID string) (*OTPResult, error) {
	if s == nil || s.otpRepo == nil {
		return nil, ErrUnauthorized
	}
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil, ErrUnauthorized
	}

	if _, err := s.resolveRole(trimmed); err != nil {
		return nil, err
	}

	rule := cache.ThrottleRule{
		Window:      time.Duration(s.cfg.Security.OTPRateLimit.WindowSeconds) * time.Second,
		MaxAttempts: s.cfg.Security.OTPRateLimit.MaxAttempts,
		Block:       time.Duration(s.cfg.Security.OTPRateLimit.BlockSeconds) * time.Second,
	}
	allowed, err := cache.AllowOTPIssue(ctx, trimmed, rule)
	if err != nil {
		logger.Warnw("otp_throttle_check_failed", "error", err)
	}
	if !allowed {
		return nil, ErrOTPThrottled
	}

	now := time.Now()
	if err := s.otpRepo.InvalidateActive(trimmed, constants.OTPPurposeLogin, now); err != nil {
		return nil, err
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(constants.OTPTTLMinutes * time.Minute)
	record := &models.OTPCode{
		DiscordID: trimmed,
		Purpose:   constants.OTPPurposeLogin,
		CodeHash:  string(hash),
		ExpiresAt: expiresAt,
	}
	if err := s.otpRepo.Create(record); err != nil {
		return nil, err
	}

	logger.Infow("otp_issued", "discord_id", trimmed, "expires_at", expiresAt)
	return &OTPResult{Code: code, ExpiresAt: expiresAt}, nil
}

// VerifyOTP checks a submitted code and returns a signed token. Codes
// are single use and die after three wrong attempts.
func (s *AuthService) VerifyOTP(ctx context.Context, discordID, code string) (string, time.Time, error) {
	if s == nil || s.otpRepo == nil {
		return "", time.Time{}, ErrUnauthorized
	}
	trimmed := strings.TrimSpace(discordID)
	submitted := strings.TrimSpace(code)
	if trimmed == "" || submitted == "" {
		return "", time.Time{}, ErrOTPInvalid
	}

	now := time.Now()
	record, err := s.otpRepo.GetLatestActive(trimmed, constants.OTPPurposeLogin, now)
	if err != nil {
		return "", time.Time{}, err
	}
	if record == nil {
		return "", time.Time{}, ErrOTPNotFound
	}
	if record.AttemptCount >= constants.OTPMaxAttempts {
		return "", time.Time{}, ErrOTPTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(submitted)) != nil {
		record.AttemptCount++
		if err := s.otpRepo.Update(record); err != nil {
			return "", time.Time{}, err
		}
		if record.AttemptCount >= constants.OTPMaxAttempts {
			return "", time.Time{}, ErrOTPTooManyAttempts
		}
		return "", time.Time{}, ErrOTPInvalid
	}

	record.VerifiedAt = &now
	if err := s.otpRepo.Update(record); err != nil {
		return "", time.Time{}, err
	}
	if err := cache.ClearOTPThrottle(ctx, trimmed); err != nil {
		logger.Warnw("otp_throttle_clear_failed", "error", err)
	}

	principal, err := s.resolveRole(trimmed)
	if err != nil {
		return "", time.Time{}, err
	}
	if principal.Role == constants.AuthRoleAdmin && s.adminRepo != nil {
		if err := s.adminRepo.TouchLogin(trimmed, now); err != nil {
			logger.Warnw("admin_touch_login_failed", "error", err)
		}
	}

	return s.GenerateJWT(principal)
}

// Principal is the authenticated identity baked into a token.
type Principal struct {
	DiscordID     string
	AffiliateCode string
	Role          string
}

// IsAdmin reports whether a Discord account is a staff operator.
func (s *AuthService) IsAdmin(discordID string) (bool, error) {
	if s == nil || s.adminRepo == nil {
		return false, nil
	}
	admin, err := s.adminRepo.GetByDiscordID(discordID)
	if err != nil {
		return false, err
	}
	return admin != nil, nil
}

// GenerateJWT signs a token for a principal.
func (s *AuthService) GenerateJWT(principal Principal) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		DiscordID:     principal.DiscordID,
		AffiliateCode: principal.AffiliateCode,
		Role:          principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT validates and decodes a token.
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// resolveRole maps a Discord account to its principal. Staff wins over
// affiliate when an account is both.
func (s *AuthService) resolveRole(discordID string) (Principal, error) {
	if s.adminRepo != nil {
		admin, err := s.adminRepo.GetByDiscordID(discordID)
		if err != nil {
			return Principal{}, err
		}
		if admin != nil {
			return Principal{DiscordID: discordID, Role: constants.AuthRoleAdmin}, nil
		}
	}
	if s.affiliateRepo != nil {
		affiliate, err := s.affiliateRepo.GetByDiscordID(discordID)
		if err != nil {
			return Principal{}, err
		}
		if affiliate != nil && affiliate.IsActive {
			return Principal{
				DiscordID:     discordID,
				AffiliateCode: affiliate.AffiliateCode,
				Role:          constants.AuthRoleAffiliate,
			}, nil
		}
	}
	return Principal{}, ErrUnauthorized
}

func generateOTPCode() (string, error) {
	max := big.NewInt(10)
	var builder strings.Builder
	builder.Grow(constants.OTPCodeLength)
	for i := 0; i < constants.OTPCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(byte('0' + n.Int64()))
	}
	return builder.String(), nil
}
