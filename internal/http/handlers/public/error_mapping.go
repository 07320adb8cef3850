package public

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

var otpIssueErrorRules = []mappedHandlerError{
	{target: service.ErrUnauthorized, code: response.CodeUnauthorized, msg: "account not registered"},
	{target: service.ErrOTPThrottled, code: response.CodeTooManyRequests, msg: "too many code requests"},
}

var otpVerifyErrorRules = []mappedHandlerError{
	{target: service.ErrUnauthorized, code: response.CodeUnauthorized, msg: "account not registered"},
	{target: service.ErrOTPNotFound, code: response.CodeBadRequest, msg: "no active code"},
	{target: service.ErrOTPInvalid, code: response.CodeBadRequest, msg: "code invalid"},
	{target: service.ErrOTPTooManyAttempts, code: response.CodeTooManyRequests, msg: "too many attempts"},
}

var withdrawalRequestErrorRules = []mappedHandlerError{
	{target: service.ErrAffiliateNotFound, code: response.CodeNotFound, msg: "affiliate not found"},
	{target: service.ErrAffiliateDisabled, code: response.CodeForbidden, msg: "affiliate disabled"},
	{target: service.ErrWithdrawalAmountInvalid, code: response.CodeBadRequest, msg: "amount invalid"},
	{target: service.ErrWithdrawalMethodInvalid, code: response.CodeBadRequest, msg: "method invalid"},
	{target: service.ErrWithdrawalInputInvalid, code: response.CodeBadRequest, msg: "payout details incomplete"},
	{target: service.ErrCryptoDetailsRequired, code: response.CodeBadRequest, msg: "coin and network required"},
	{target: service.ErrWithdrawalInsufficient, code: response.CodeBadRequest, msg: "insufficient balance"},
}

func respondOTPIssueError(c *gin.Context, err error) {
	respondWithMappedError(c, err, otpIssueErrorRules, response.CodeInternal, "code request failed")
}

func respondOTPVerifyError(c *gin.Context, err error) {
	respondWithMappedError(c, err, otpVerifyErrorRules, response.CodeInternal, "login failed")
}

func respondWithdrawalRequestError(c *gin.Context, err error) {
	respondWithMappedError(c, err, withdrawalRequestErrorRules, response.CodeInternal, "withdrawal request failed")
}
