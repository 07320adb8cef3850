package main

import (
	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("100000000000000001", "seed-admin"); err != nil {
		stdLog.Printf("Failed to seed default admin: %v", err)
	}

	affiliates := []models.Affiliate{
		{
			Name:              "Rafael Demo",
			DiscordID:         "200000000000000001",
			AffiliateCode:     "RAFA2024",
			Tier:              constants.AffiliateTierOuro,
			Commission:        models.NewMoneyFromFloat(40),
			CascadeCommission: models.NewMoneyFromFloat(10),
			IsActive:          true,
		},
		{
			Name:              "Beatriz Demo",
			DiscordID:         "200000000000000002",
			AffiliateCode:     "BEA2024",
			Tier:              constants.AffiliateTierPrata,
			Commission:        models.NewMoneyFromFloat(30),
			CascadeCommission: models.NewMoneyFromFloat(10),
			ReferredBy:        "RAFA2024",
			IsActive:          true,
		},
		{
			Name:              "Lucas Demo",
			DiscordID:         "200000000000000003",
			AffiliateCode:     "LUCAS24",
			Tier:              constants.AffiliateTierBronze,
			Commission:        models.NewMoneyFromFloat(20),
			CascadeCommission: models.NewMoneyFromFloat(10),
			IsActive:          true,
		},
	}

	for _, aff := range affiliates {
		var existing models.Affiliate
		if err := models.DB.Where("affiliate_code = ?", aff.AffiliateCode).First(&existing).Error; err != nil {
			if err := models.DB.Create(&aff).Error; err != nil {
				stdLog.Printf("Failed to create affiliate %s: %v", aff.AffiliateCode, err)
			} else {
				stdLog.Printf("Created affiliate: %s", aff.AffiliateCode)
			}
		} else {
			stdLog.Printf("Affiliate already exists: %s", aff.AffiliateCode)
		}
	}

	if err := models.DB.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", "RAFA2024").
		Update("referrals_count", models.DB.Model(&models.Affiliate{}).
			Select("count(*)").
			Where("referred_by = ?", "RAFA2024")).Error; err != nil {
		stdLog.Printf("Failed to refresh referral counts: %v", err)
	}

	stdLog.Println("Seed completed")
}
