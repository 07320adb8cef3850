package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
)

const (
	swapPercentMin        = 0
	swapPercentMax        = 100
	swapMinTransactionMin = 0
)

// SwapSetting is the tunable swap economics: default commission rates
// and the fee band quoted to clients.
type SwapSetting struct {
	AffiliateCommission float64 `json:"affiliate_commission"`
	CascadeCommission   float64 `json:"cascade_commission"`
	MinFee              float64 `json:"min_fee"`
	MaxFee              float64 `json:"max_fee"`
	MinTransaction      float64 `json:"min_transaction"`
}

// EstimateFeePercent is the midpoint of the fee band, used to value a
// lead before the real fee is known at confirmation.
func (s SwapSetting) EstimateFeePercent() float64 {
	return roundSwapDecimal((s.MinFee + s.MaxFee) / 2)
}

// SwapDefaultSetting builds the fallback setting from static config.
func SwapDefaultSetting(cfg config.SwapConfig) SwapSetting {
	return NormalizeSwapSetting(SwapSetting{
		AffiliateCommission: cfg.AffiliateCommission,
		CascadeCommission:   cfg.CascadeCommission,
		MinFee:              cfg.MinFee,
		MaxFee:              cfg.MaxFee,
		MinTransaction:      cfg.MinTransaction,
	})
}

// NormalizeSwapSetting clamps the setting into its legal ranges.
func NormalizeSwapSetting(setting SwapSetting) SwapSetting {
	setting.AffiliateCommission = clampSwapPercent(setting.AffiliateCommission)
	setting.CascadeCommission = clampSwapPercent(setting.CascadeCommission)
	setting.MinFee = clampSwapPercent(setting.MinFee)
	setting.MaxFee = clampSwapPercent(setting.MaxFee)
	if setting.MaxFee < setting.MinFee {
		setting.MaxFee = setting.MinFee
	}
	setting.MinTransaction = roundSwapDecimal(setting.MinTransaction)
	if setting.MinTransaction < swapMinTransactionMin {
		setting.MinTransaction = swapMinTransactionMin
	}
	return setting
}

// ValidateSwapSetting validates the setting before persisting.
func ValidateSwapSetting(setting SwapSetting) error {
	if setting.AffiliateCommission < swapPercentMin || setting.AffiliateCommission > swapPercentMax {
		return fmt.Errorf("%w: affiliate commission must be between 0 and 100", ErrSwapConfigInvalid)
	}
	if setting.CascadeCommission < swapPercentMin || setting.CascadeCommission > swapPercentMax {
		return fmt.Errorf("%w: cascade commission must be between 0 and 100", ErrSwapConfigInvalid)
	}
	if setting.MinFee < swapPercentMin || setting.MaxFee > swapPercentMax {
		return fmt.Errorf("%w: fee band must stay between 0 and 100", ErrSwapConfigInvalid)
	}
	if setting.MaxFee < setting.MinFee {
		return fmt.Errorf("%w: max fee cannot be below min fee", ErrSwapConfigInvalid)
	}
	if setting.MinTransaction < swapMinTransactionMin {
		return fmt.Errorf("%w: min transaction cannot be negative", ErrSwapConfigInvalid)
	}
	return nil
}

// SwapSettingToMap converts a setting to the storage structure.
func SwapSettingToMap(setting SwapSetting) map[string]interface{} {
	normalized := NormalizeSwapSetting(setting)
	return map[string]interface{}{
		constants.SettingFieldAffiliateCommission: normalized.AffiliateCommission,
		constants.SettingFieldCascadeCommission:   normalized.CascadeCommission,
		constants.SettingFieldMinFee:              normalized.MinFee,
		constants.SettingFieldMaxFee:              normalized.MaxFee,
		constants.SettingFieldMinTransaction:      normalized.MinTransaction,
	}
}

func swapSettingFromJSON(raw models.JSON, fallback SwapSetting) SwapSetting {
	result := fallback
	if value, ok := raw[constants.SettingFieldAffiliateCommission]; ok {
		if parsed, err := parseSettingFloat(value); err == nil {
			result.AffiliateCommission = parsed
		}
	}
	if value, ok := raw[constants.SettingFieldCascadeCommission]; ok {
		if parsed, err := parseSettingFloat(value); err == nil {
			result.CascadeCommission = parsed
		}
	}
	if value, ok := raw[constants.SettingFieldMinFee]; ok {
		if parsed, err := parseSettingFloat(value); err == nil {
			result.MinFee = parsed
		}
	}
	if value, ok := raw[constants.SettingFieldMaxFee]; ok {
		if parsed, err := parseSettingFloat(value); err == nil {
			result.MaxFee = parsed
		}
	}
	if value, ok := raw[constants.SettingFieldMinTransaction]; ok {
		if parsed, err := parseSettingFloat(value); err == nil {
			result.MinTransaction = parsed
		}
	}
	return NormalizeSwapSetting(result)
}

func clampSwapPercent(value float64) float64 {
	value = roundSwapDecimal(value)
	if value < swapPercentMin {
		return swapPercentMin
	}
	if value > swapPercentMax {
		return swapPercentMax
	}
	return value
}

func roundSwapDecimal(value float64) float64 {
	return math.Round(value*100) / 100
}

func parseSettingFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseFloat(trimmed, 64)
	default:
		return 0, fmt.Errorf("unsupported value type")
	}
}
