package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/notify"
	"github.com/vultos-swap/internal/queue"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.AdminConfig{},
		&models.Affiliate{},
		&models.Lead{},
		&models.WithdrawalRequest{},
		&models.OTPCode{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func testSwapConfig() config.SwapConfig {
	return config.SwapConfig{
		AffiliateCommission: 30,
		CascadeCommission:   10,
		MinFee:              10,
		MaxFee:              15,
		MinTransaction:      100,
	}
}

func newTestDispatcher() *notify.Dispatcher {
	client, _ := queue.NewClient(nil)
	return notify.NewDispatcher(client, notify.NewSender(0), "", "")
}

func createTestAffiliate(t *testing.T, db *gorm.DB, code string, commissionPercent float64, referredBy string) models.Affiliate {
	t.Helper()

	row := models.Affiliate{
		Name:              "tester " + code,
		DiscordID:         "discord-" + code,
		AffiliateCode:     code,
		Tier:              constants.AffiliateTierDefault,
		Commission:        models.NewMoneyFromFloat(commissionPercent),
		ReferredBy:        referredBy,
		CascadeCommission: models.NewMoneyFromFloat(10),
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return row
}

func setAffiliateEarnings(t *testing.T, db *gorm.DB, code string, total float64) {
	t.Helper()

	if err := db.Model(&models.Affiliate{}).
		Where("affiliate_code = ?", code).
		Update("total_earnings", models.NewMoneyFromFloat(total)).Error; err != nil {
		t.Fatalf("seed earnings failed: %v", err)
	}
}

func reloadAffiliate(t *testing.T, db *gorm.DB, code string) models.Affiliate {
	t.Helper()

	var row models.Affiliate
	if err := db.Where("affiliate_code = ?", code).First(&row).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	return row
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}
