package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vultos-swap/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// AffiliateAuthState is a server-side snapshot of an affiliate account
// used by the auth middleware to avoid a database hit per request.
type AffiliateAuthState struct {
	AffiliateID   uint   `json:"affiliate_id"`
	AffiliateCode string `json:"affiliate_code"`
	DiscordID     string `json:"discord_id"`
	IsActive      bool   `json:"is_active"`
	UpdatedAt     int64  `json:"updated_at"`
}

// AdminAuthState is a server-side snapshot of a staff operator.
type AdminAuthState struct {
	AdminID   uint   `json:"admin_id"`
	DiscordID string `json:"discord_id"`
	IsSuper   bool   `json:"is_super"`
	UpdatedAt int64  `json:"updated_at"`
}

func affiliateAuthStateKey(discordID string) string {
	return fmt.Sprintf("auth:affiliate:%s", discordID)
}

func adminAuthStateKey(discordID string) string {
	return fmt.Sprintf("auth:admin:%s", discordID)
}

// BuildAffiliateAuthState builds a snapshot from the model.
func BuildAffiliateAuthState(affiliate *models.Affiliate) *AffiliateAuthState {
	if affiliate == nil {
		return nil
	}
	return &AffiliateAuthState{
		AffiliateID:   affiliate.ID,
		AffiliateCode: affiliate.AffiliateCode,
		DiscordID:     affiliate.DiscordID,
		IsActive:      affiliate.IsActive,
		UpdatedAt:     time.Now().Unix(),
	}
}

// BuildAdminAuthState builds a snapshot from the model.
func BuildAdminAuthState(admin *models.AdminConfig) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:   admin.ID,
		DiscordID: admin.DiscordID,
		IsSuper:   admin.IsSuper,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetAffiliateAuthState reads an affiliate snapshot.
func GetAffiliateAuthState(ctx context.Context, discordID string) (*AffiliateAuthState, bool, error) {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil, false, nil
	}
	var state AffiliateAuthState
	hit, err := GetJSON(ctx, affiliateAuthStateKey(trimmed), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAffiliateAuthState writes an affiliate snapshot.
func SetAffiliateAuthState(ctx context.Context, state *AffiliateAuthState) error {
	if state == nil || state.DiscordID == "" {
		return nil
	}
	return SetJSON(ctx, affiliateAuthStateKey(state.DiscordID), state, authStateCacheTTL)
}

// DelAffiliateAuthState removes an affiliate snapshot, used after
// profile updates or deactivation.
func DelAffiliateAuthState(ctx context.Context, discordID string) error {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil
	}
	return Del(ctx, affiliateAuthStateKey(trimmed))
}

// GetAdminAuthState reads a staff operator snapshot.
func GetAdminAuthState(ctx context.Context, discordID string) (*AdminAuthState, bool, error) {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil, false, nil
	}
	var state AdminAuthState
	hit, err := GetJSON(ctx, adminAuthStateKey(trimmed), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAdminAuthState writes a staff operator snapshot.
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.DiscordID == "" {
		return nil
	}
	return SetJSON(ctx, adminAuthStateKey(state.DiscordID), state, authStateCacheTTL)
}

// DelAdminAuthState removes a staff operator snapshot.
func DelAdminAuthState(ctx context.Context, discordID string) error {
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil
	}
	return Del(ctx, adminAuthStateKey(trimmed))
}
