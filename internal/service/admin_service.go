package service

import (
	"context"
	"strings"

	"github.com/vultos-swap/internal/cache"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/repository"
)

// AdminService manages the staff operator roster.
type AdminService struct {
	repo repository.AdminRepository
}

// NewAdminService creates the admin service.
func NewAdminService(repo repository.AdminRepository) *AdminService {
	return &AdminService{repo: repo}
}

// AddAdmin registers a Discord account as staff.
func (s *AdminService) AddAdmin(discordID, name string, isSuper bool) (*models.AdminConfig, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAdminNotFound
	}
	trimmed := strings.TrimSpace(discordID)
	if trimmed == "" {
		return nil, ErrAdminNotFound
	}
	existing, err := s.repo.GetByDiscordID(trimmed)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminExists
	}
	admin := &models.AdminConfig{
		DiscordID: trimmed,
		Name:      strings.TrimSpace(name),
		IsSuper:   isSuper,
	}
	if err := s.repo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// RemoveAdmin drops a staff operator and evicts its auth snapshot.
func (s *AdminService) RemoveAdmin(discordID string) error {
	if s == nil || s.repo == nil {
		return ErrAdminNotFound
	}
	trimmed := strings.TrimSpace(discordID)
	admin, err := s.repo.GetByDiscordID(trimmed)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrAdminNotFound
	}
	if err := s.repo.Remove(trimmed); err != nil {
		return err
	}
	if err := cache.DelAdminAuthState(context.Background(), trimmed); err != nil {
		logger.Warnw("auth_state_evict_failed", "discord_id", trimmed, "error", err)
	}
	return nil
}

// ListAdmins returns all staff operators.
func (s *AdminService) ListAdmins() ([]models.AdminConfig, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAdminNotFound
	}
	return s.repo.List()
}

// CheckAdmin reports whether a Discord account is staff.
func (s *AdminService) CheckAdmin(discordID string) (*models.AdminConfig, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAdminNotFound
	}
	admin, err := s.repo.GetByDiscordID(discordID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}
