package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead is a swap ticket attributed to an affiliate. Percentages and the
// cascade code are snapshotted at intake so later affiliate edits never
// change what an open ticket is worth.
type Lead struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	LeadCode            string         `gorm:"type:varchar(36);not null;uniqueIndex" json:"lead_code"`
	AffiliateCode       string         `gorm:"type:varchar(32);not null;index" json:"affiliate_code"`
	CascadeCode         string         `gorm:"type:varchar(32);index" json:"cascade_code,omitempty"` // recruiter code frozen at intake
	ClientDiscordID     string         `gorm:"type:varchar(32);index" json:"client_discord_id"`
	ClientName          string         `gorm:"type:varchar(100)" json:"client_name"`
	ServiceType         string         `gorm:"type:varchar(20);not null" json:"service_type"`
	CryptoCoin          string         `gorm:"type:varchar(20)" json:"crypto_coin,omitempty"`
	TransactionValue    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"transaction_value"`
	FeePercent          Money          `gorm:"type:decimal(10,2);not null;default:0" json:"fee_percent"`
	CommissionPercent   Money          `gorm:"type:decimal(10,2);not null;default:0" json:"commission_percent"`
	CascadePercent      Money          `gorm:"type:decimal(10,2);not null;default:0" json:"cascade_percent"`
	TotalProfit         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_profit"`
	AffiliateCommission Money          `gorm:"type:decimal(20,2);not null;default:0" json:"affiliate_commission"`
	CascadeCommission   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cascade_commission"`
	CompanyProfit       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"company_profit"`
	Status              string         `gorm:"type:varchar(20);not null;index" json:"status"`
	ConfirmedAt         *time.Time     `gorm:"index" json:"confirmed_at,omitempty"`
	ConfirmedBy         string         `gorm:"type:varchar(32)" json:"confirmed_by,omitempty"` // admin discord id
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Lead) TableName() string {
	return "leads"
}
