package service

import "errors"

// Affiliate errors
var (
	ErrAffiliateNotFound      = errors.New("affiliate not found")
	ErrAffiliateDisabled      = errors.New("affiliate disabled")
	ErrAffiliateExists        = errors.New("affiliate already exists")
	ErrAffiliateTierInvalid   = errors.New("affiliate tier invalid")
	ErrAffiliateInputInvalid  = errors.New("affiliate input invalid")
	ErrReferrerNotFound       = errors.New("referrer not found")
	ErrReferrerSelfReferral   = errors.New("affiliate cannot refer itself")
	ErrCommissionRateInvalid  = errors.New("commission rate must be between 0 and 100")
	ErrSwapConfigInvalid      = errors.New("swap config invalid")
	ErrAffiliateCodeExhausted = errors.New("could not allocate a unique affiliate code")
)

// Lead errors
var (
	ErrLeadNotFound           = errors.New("lead not found")
	ErrLeadAlreadyConfirmed   = errors.New("lead already confirmed")
	ErrLeadInputInvalid       = errors.New("lead input invalid")
	ErrTransactionTooSmall    = errors.New("transaction value below minimum")
	ErrFeeOutOfRange          = errors.New("fee percent outside configured range")
	ErrCryptoCoinRequired     = errors.New("crypto coin required for crypto swaps")
	ErrLeadServiceTypeInvalid = errors.New("lead service type invalid")
)

// Withdrawal errors
var (
	ErrWithdrawalNotFound          = errors.New("withdrawal request not found")
	ErrWithdrawalInputInvalid      = errors.New("withdrawal input invalid")
	ErrWithdrawalMethodInvalid     = errors.New("withdrawal method invalid")
	ErrWithdrawalAmountInvalid     = errors.New("withdrawal amount must be positive")
	ErrWithdrawalInsufficient      = errors.New("withdrawal amount exceeds available balance")
	ErrWithdrawalStatusInvalid     = errors.New("withdrawal status invalid")
	ErrWithdrawalTransitionInvalid = errors.New("withdrawal status transition not allowed")
	ErrCryptoDetailsRequired       = errors.New("crypto coin and network required")
)

// Auth errors
var (
	ErrOTPThrottled       = errors.New("too many otp requests")
	ErrOTPNotFound        = errors.New("otp code not found or expired")
	ErrOTPInvalid         = errors.New("otp code invalid")
	ErrOTPTooManyAttempts = errors.New("otp attempt limit reached")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin already exists")
	ErrTokenInvalid       = errors.New("token invalid")
)
