package models

import (
	"strings"

	"github.com/vultos-swap/internal/logger"
)

// InitDefaultAdmin seeds the first staff operator. Later admins are
// added through the admin API.
func InitDefaultAdmin(discordID, name string) error {
	var count int64
	DB.Model(&AdminConfig{}).Count(&count)

	// Keep the bootstrap operator super once admins exist.
	if count > 0 {
		if discordID != "" {
			if err := DB.Model(&AdminConfig{}).Where("discord_id = ?", discordID).Update("is_super", true).Error; err != nil {
				logger.Warnw("ensure_default_admin_super_failed", "error", err)
			}
		}
		return nil
	}

	if strings.TrimSpace(discordID) == "" {
		logger.Warnw("default_admin_skipped", "reason", "no_discord_id_configured")
		return nil
	}
	if name == "" {
		name = "admin"
	}

	admin := AdminConfig{
		DiscordID: strings.TrimSpace(discordID),
		Name:      name,
		IsSuper:   true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Warnw("default_admin_created", "discord_id", admin.DiscordID, "name", admin.Name)
	return nil
}
