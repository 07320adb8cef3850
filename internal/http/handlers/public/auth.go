package public

import (
	"github.com/vultos-swap/internal/http/response"

	"github.com/gin-gonic/gin"
)

// OTPRequestRequest asks for a login code for a Discord account.
type OTPRequestRequest struct {
	DiscordID string `json:"discord_id" binding:"required"`
}

// OTPVerifyRequest exchanges a login code for a token.
type OTPVerifyRequest struct {
	DiscordID string `json:"discord_id" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// RequestOTP issues a login code. The code is returned to the caller
// for delivery over Discord DM; it is never persisted in the clear.
func (h *Handler) RequestOTP(c *gin.Context) {
	var req OTPRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.AuthService == nil {
		respondError(c, response.CodeInternal, "code request failed", nil)
		return
	}

	result, err := h.AuthService.IssueOTP(c.Request.Context(), req.DiscordID)
	if err != nil {
		respondOTPIssueError(c, err)
		return
	}
	response.Success(c, gin.H{
		"code":       result.Code,
		"expires_at": result.ExpiresAt,
	})
}

// VerifyOTP validates a login code and returns a signed token.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.AuthService == nil {
		respondError(c, response.CodeInternal, "login failed", nil)
		return
	}

	token, expiresAt, err := h.AuthService.VerifyOTP(c.Request.Context(), req.DiscordID, req.Code)
	if err != nil {
		respondOTPVerifyError(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}
