package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate is a partner who brings swap clients in exchange for a
// commission on the service fee. Earnings counters are maintained by
// the lead and withdrawal flows, never written directly by handlers.
type Affiliate struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	Name              string         `gorm:"type:varchar(100);not null" json:"name"`
	Username          string         `gorm:"type:varchar(100)" json:"username"`
	DiscordID         string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"discord_id"`
	AffiliateCode     string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"affiliate_code"`
	Tier              string         `gorm:"type:varchar(20);not null;index" json:"tier"`
	Commission        Money          `gorm:"type:decimal(10,2);not null;default:0" json:"commission"` // percent of swap profit
	ReferredBy        string         `gorm:"type:varchar(32);index" json:"referred_by"`               // affiliate code of the recruiter
	ReferralsCount    int            `gorm:"not null;default:0" json:"referrals_count"`
	TotalSales        int            `gorm:"not null;default:0" json:"total_sales"`
	TotalEarnings     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`
	PendingEarnings   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"pending_earnings"`
	CascadeEarnings   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cascade_earnings"`
	CascadeCommission Money          `gorm:"type:decimal(10,2);not null;default:0" json:"cascade_commission"` // percent earned on referrals' sales
	DiscordWebhookURL string         `gorm:"type:varchar(255)" json:"discord_webhook_url,omitempty"`
	IsActive          bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Affiliate) TableName() string {
	return "affiliates"
}
