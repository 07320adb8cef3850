package admin

import (
	"errors"

	"github.com/vultos-swap/internal/http/response"
	"github.com/vultos-swap/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a business error onto an API reply.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var affiliateCreateErrorRules = []mappedHandlerError{
	{target: service.ErrAffiliateInputInvalid, code: response.CodeBadRequest, msg: "affiliate input invalid"},
	{target: service.ErrAffiliateTierInvalid, code: response.CodeBadRequest, msg: "tier invalid"},
	{target: service.ErrCommissionRateInvalid, code: response.CodeBadRequest, msg: "commission rate invalid"},
	{target: service.ErrAffiliateExists, code: response.CodeConflict, msg: "code or discord account already registered"},
	{target: service.ErrReferrerNotFound, code: response.CodeBadRequest, msg: "referrer not found"},
	{target: service.ErrReferrerSelfReferral, code: response.CodeBadRequest, msg: "affiliate cannot refer itself"},
	{target: service.ErrAffiliateCodeExhausted, code: response.CodeInternal, msg: "code generation failed"},
}

var affiliateUpdateErrorRules = []mappedHandlerError{
	{target: service.ErrAffiliateNotFound, code: response.CodeNotFound, msg: "affiliate not found"},
	{target: service.ErrAffiliateInputInvalid, code: response.CodeBadRequest, msg: "name cannot be empty"},
	{target: service.ErrAffiliateTierInvalid, code: response.CodeBadRequest, msg: "tier invalid"},
	{target: service.ErrCommissionRateInvalid, code: response.CodeBadRequest, msg: "commission rate invalid"},
}

var leadCreateErrorRules = []mappedHandlerError{
	{target: service.ErrLeadInputInvalid, code: response.CodeBadRequest, msg: "affiliate code required"},
	{target: service.ErrCryptoCoinRequired, code: response.CodeBadRequest, msg: "crypto coin required"},
	{target: service.ErrTransactionTooSmall, code: response.CodeBadRequest, msg: "transaction below minimum"},
	{target: service.ErrLeadServiceTypeInvalid, code: response.CodeBadRequest, msg: "service type invalid"},
	{target: service.ErrFeeOutOfRange, code: response.CodeBadRequest, msg: "fee outside allowed band"},
}

var leadConfirmErrorRules = []mappedHandlerError{
	{target: service.ErrLeadNotFound, code: response.CodeNotFound, msg: "lead not found"},
	{target: service.ErrLeadAlreadyConfirmed, code: response.CodeConflict, msg: "lead already confirmed"},
	{target: service.ErrLeadInputInvalid, code: response.CodeBadRequest, msg: "final value invalid"},
	{target: service.ErrFeeOutOfRange, code: response.CodeBadRequest, msg: "fee outside allowed band"},
}

var withdrawalSetStatusErrorRules = []mappedHandlerError{
	{target: service.ErrWithdrawalNotFound, code: response.CodeNotFound, msg: "withdrawal not found"},
	{target: service.ErrWithdrawalStatusInvalid, code: response.CodeBadRequest, msg: "status invalid"},
	{target: service.ErrWithdrawalTransitionInvalid, code: response.CodeConflict, msg: "transition not allowed"},
	{target: service.ErrWithdrawalInsufficient, code: response.CodeBadRequest, msg: "insufficient balance"},
	{target: service.ErrAffiliateNotFound, code: response.CodeNotFound, msg: "affiliate not found"},
}

var adminRosterErrorRules = []mappedHandlerError{
	{target: service.ErrAdminExists, code: response.CodeConflict, msg: "admin already registered"},
	{target: service.ErrAdminNotFound, code: response.CodeNotFound, msg: "admin not found"},
}

var swapConfigUpdateErrorRules = []mappedHandlerError{
	{target: service.ErrSwapConfigInvalid, code: response.CodeBadRequest, msg: "swap config invalid"},
}

func respondAffiliateCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, affiliateCreateErrorRules, response.CodeInternal, "affiliate create failed")
}

func respondAffiliateUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, affiliateUpdateErrorRules, response.CodeInternal, "affiliate update failed")
}

func respondLeadCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, leadCreateErrorRules, response.CodeInternal, "lead create failed")
}

func respondLeadConfirmError(c *gin.Context, err error) {
	respondWithMappedError(c, err, leadConfirmErrorRules, response.CodeInternal, "sale confirm failed")
}

func respondWithdrawalSetStatusError(c *gin.Context, err error) {
	respondWithMappedError(c, err, withdrawalSetStatusErrorRules, response.CodeInternal, "status update failed")
}

func respondAdminRosterError(c *gin.Context, err error) {
	respondWithMappedError(c, err, adminRosterErrorRules, response.CodeInternal, "admin roster update failed")
}

func respondSwapConfigUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, swapConfigUpdateErrorRules, response.CodeInternal, "swap config update failed")
}
