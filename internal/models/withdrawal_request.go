package models

import (
	"time"

	"gorm.io/gorm"
)

// WithdrawalRequest is a payout request against an affiliate balance.
// The balance is only debited when the request reaches completed.
type WithdrawalRequest struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	AffiliateCode string         `gorm:"type:varchar(32);not null;index" json:"affiliate_code"`
	Amount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	Method        string         `gorm:"type:varchar(20);not null" json:"method"` // pix / crypto
	PixKey        string         `gorm:"type:varchar(140)" json:"pix_key,omitempty"`
	CryptoCoin    string         `gorm:"type:varchar(20)" json:"crypto_coin,omitempty"`
	CryptoNetwork string         `gorm:"type:varchar(30)" json:"crypto_network,omitempty"`
	WalletAddress string         `gorm:"type:varchar(140)" json:"wallet_address,omitempty"`
	Status        string         `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes         string         `gorm:"type:varchar(255)" json:"notes,omitempty"`
	ProcessedAt   *time.Time     `gorm:"index" json:"processed_at,omitempty"`
	ProcessedBy   string         `gorm:"type:varchar(32)" json:"processed_by,omitempty"` // admin discord id
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
