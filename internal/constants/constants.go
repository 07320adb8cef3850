package constants

// Affiliate tier constants
const (
	AffiliateTierBronze   = "bronze"
	AffiliateTierPrata    = "prata"
	AffiliateTierOuro     = "ouro"
	AffiliateTierDiamante = "diamante"
	AffiliateTierDefault  = AffiliateTierPrata
)

// Commission percentage per tier
var AffiliateTierCommission = map[string]float64{
	AffiliateTierBronze:   20,
	AffiliateTierPrata:    30,
	AffiliateTierOuro:     40,
	AffiliateTierDiamante: 50,
}

// Lead status constants
const (
	LeadStatusPending   = "pending"
	LeadStatusConfirmed = "confirmed"
)

// Lead service type constants
const (
	LeadServiceTypeSwap = "swap"
)

// Withdrawal status constants
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusApproved  = "approved"
	WithdrawalStatusCompleted = "completed"
	WithdrawalStatusRejected  = "rejected"
)

// Withdrawal payment method constants
const (
	WithdrawalMethodPix    = "pix"
	WithdrawalMethodCrypto = "crypto"
)

// Auth role constants
const (
	AuthRoleAdmin     = "admin"
	AuthRoleAffiliate = "affiliate"
)

// OTP constants
const (
	OTPCodeLength     = 6
	OTPTTLMinutes     = 5
	OTPMaxAttempts    = 3
	OTPPurposeLogin   = "login"
	OTPPurposeConfirm = "confirm"
)

// Queue constants
const (
	QueueDefault        = "default"
	TaskWebhookDispatch = "webhook:dispatch"
)

// Cache defaults
const (
	RedisPrefixDefault = "vs"
)

// System config keys
const (
	SettingKeySwapConfig            = "swap_config"
	SettingFieldAffiliateCommission = "affiliate_commission"
	SettingFieldCascadeCommission   = "cascade_commission"
	SettingFieldMinFee              = "min_fee"
	SettingFieldMaxFee              = "max_fee"
	SettingFieldMinTransaction      = "min_transaction"
)

// Webhook event constants
const (
	WebhookEventLeadCreated      = "lead_created"
	WebhookEventSaleConfirmed    = "sale_confirmed"
	WebhookEventCascadeCredit    = "cascade_credit"
	WebhookEventWithdrawRequest  = "withdrawal_requested"
	WebhookEventWithdrawStatus   = "withdrawal_status_changed"
	WebhookEventAffiliateCreated = "affiliate_created"
)

// Discord embed colors
const (
	EmbedColorBlue   = 3447003
	EmbedColorGreen  = 3066993
	EmbedColorOrange = 15105570
	EmbedColorRed    = 15158332
	EmbedColorPurple = 10181046
)
