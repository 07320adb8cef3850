package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vultos-swap/internal/http/response"
	"github.com/vultos-swap/internal/repository"
	"github.com/vultos-swap/internal/service"

	"github.com/gin-gonic/gin"
)

// AffiliateCreateRequest registers a new affiliate. Code is the
// affiliate's chosen public code; leave it blank to get a random one.
type AffiliateCreateRequest struct {
	Name              string   `json:"name" binding:"required"`
	Username          string   `json:"username"`
	DiscordID         string   `json:"discord_id" binding:"required"`
	Code              string   `json:"code"`
	Tier              string   `json:"tier"`
	Commission        *float64 `json:"commission"`
	ReferredBy        string   `json:"referred_by"`
	DiscordWebhookURL string   `json:"discord_webhook_url"`
}

// AffiliateUpdateRequest partially updates an affiliate.
type AffiliateUpdateRequest struct {
	Name              *string  `json:"name"`
	Tier              *string  `json:"tier"`
	Commission        *float64 `json:"commission"`
	CascadeCommission *float64 `json:"cascade_commission"`
	DiscordWebhookURL *string  `json:"discord_webhook_url"`
	IsActive          *bool    `json:"is_active"`
}

// CreateAffiliate registers an affiliate.
func (h *Handler) CreateAffiliate(c *gin.Context) {
	var req AffiliateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "affiliate create failed", nil)
		return
	}

	affiliate, err := h.AffiliateService.CreateAffiliate(service.AffiliateCreateInput{
		Name:              req.Name,
		Username:          req.Username,
		DiscordID:         req.DiscordID,
		Code:              req.Code,
		Tier:              req.Tier,
		Commission:        req.Commission,
		ReferredBy:        req.ReferredBy,
		DiscordWebhookURL: req.DiscordWebhookURL,
	})
	if err != nil {
		respondAffiliateCreateError(c, err)
		return
	}
	response.Success(c, affiliate)
}

// UpdateAffiliate updates an affiliate.
func (h *Handler) UpdateAffiliate(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "affiliate code required", nil)
		return
	}
	var req AffiliateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "affiliate update failed", nil)
		return
	}

	affiliate, err := h.AffiliateService.UpdateAffiliate(code, service.AffiliateUpdateInput{
		Name:              req.Name,
		Tier:              req.Tier,
		Commission:        req.Commission,
		CascadeCommission: req.CascadeCommission,
		DiscordWebhookURL: req.DiscordWebhookURL,
		IsActive:          req.IsActive,
	})
	if err != nil {
		respondAffiliateUpdateError(c, err)
		return
	}
	response.Success(c, affiliate)
}

// DeactivateAffiliate disables an affiliate.
func (h *Handler) DeactivateAffiliate(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "affiliate code required", nil)
		return
	}
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "affiliate update failed", nil)
		return
	}
	if err := h.AffiliateService.DeactivateAffiliate(code); err != nil {
		respondAffiliateUpdateError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// GetAffiliate fetches one affiliate with its funnel summary.
func (h *Handler) GetAffiliate(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "affiliate code required", nil)
		return
	}
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "affiliate fetch failed", nil)
		return
	}
	affiliate, err := h.AffiliateService.GetByCode(code)
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "affiliate fetch failed", err)
		return
	}
	stats, err := h.AffiliateService.Stats(affiliate.AffiliateCode)
	if err != nil {
		respondError(c, response.CodeInternal, "affiliate fetch failed", err)
		return
	}
	response.Success(c, gin.H{
		"affiliate": affiliate,
		"stats":     stats,
	})
}

// ListAffiliates queries the affiliate roster.
func (h *Handler) ListAffiliates(c *gin.Context) {
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "affiliate fetch failed", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.AffiliateService.List(repository.AffiliateListFilter{
		Tier:       strings.TrimSpace(c.Query("tier")),
		ReferredBy: strings.TrimSpace(c.Query("referred_by")),
		ActiveOnly: c.Query("active") == "true",
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "affiliate fetch failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
