package service

import (
	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/repository"
)

// SettingService reads and writes system settings.
type SettingService struct {
	repo     repository.SettingRepository
	defaults config.SwapConfig
}

// NewSettingService creates the setting service.
func NewSettingService(repo repository.SettingRepository, defaults config.SwapConfig) *SettingService {
	return &SettingService{repo: repo, defaults: defaults}
}

// GetByKey fetches a raw setting value.
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// GetSwapSetting returns the current swap economics, falling back to
// the static config when the row does not exist yet.
func (s *SettingService) GetSwapSetting() (SwapSetting, error) {
	fallback := SwapDefaultSetting(s.defaults)
	if s == nil || s.repo == nil {
		return fallback, nil
	}
	raw, err := s.GetByKey(constants.SettingKeySwapConfig)
	if err != nil {
		return fallback, err
	}
	if raw == nil {
		return fallback, nil
	}
	return swapSettingFromJSON(raw, fallback), nil
}

// UpdateSwapSetting validates and persists the swap economics.
func (s *SettingService) UpdateSwapSetting(setting SwapSetting) (SwapSetting, error) {
	normalized := NormalizeSwapSetting(setting)
	if err := ValidateSwapSetting(normalized); err != nil {
		return SwapDefaultSetting(s.defaults), err
	}
	if _, err := s.repo.Upsert(constants.SettingKeySwapConfig, SwapSettingToMap(normalized)); err != nil {
		return SwapDefaultSetting(s.defaults), err
	}
	return normalized, nil
}
