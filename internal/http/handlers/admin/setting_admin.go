package admin

import (
	"github.com/vultos-swap/internal/http/response"
	"github.com/vultos-swap/internal/service"

	"github.com/gin-gonic/gin"
)

// SwapConfigUpdateRequest replaces the swap economics.
type SwapConfigUpdateRequest struct {
	AffiliateCommission float64 `json:"affiliate_commission"`
	CascadeCommission   float64 `json:"cascade_commission"`
	MinFee              float64 `json:"min_fee"`
	MaxFee              float64 `json:"max_fee"`
	MinTransaction      float64 `json:"min_transaction"`
}

// GetSwapConfig returns the full swap economics.
func (h *Handler) GetSwapConfig(c *gin.Context) {
	if h.SettingService == nil {
		respondError(c, response.CodeInternal, "config fetch failed", nil)
		return
	}
	setting, err := h.SettingService.GetSwapSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "config fetch failed", err)
		return
	}
	response.Success(c, setting)
}

// UpdateSwapConfig replaces the swap economics.
func (h *Handler) UpdateSwapConfig(c *gin.Context) {
	var req SwapConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.SettingService == nil {
		respondError(c, response.CodeInternal, "swap config update failed", nil)
		return
	}

	updated, err := h.SettingService.UpdateSwapSetting(service.SwapSetting{
		AffiliateCommission: req.AffiliateCommission,
		CascadeCommission:   req.CascadeCommission,
		MinFee:              req.MinFee,
		MaxFee:              req.MaxFee,
		MinTransaction:      req.MinTransaction,
	})
	if err != nil {
		respondSwapConfigUpdateError(c, err)
		return
	}
	response.Success(c, updated)
}
