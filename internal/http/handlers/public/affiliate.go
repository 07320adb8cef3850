package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vultos-swap/internal/http/response"
	"github.com/vultos-swap/internal/repository"
	"github.com/vultos-swap/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetMyProfile returns the calling affiliate's record.
func (h *Handler) GetMyProfile(c *gin.Context) {
	code, ok := getAffiliateCode(c)
	if !ok {
		return
	}
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "profile fetch failed", nil)
		return
	}
	affiliate, err := h.AffiliateService.GetByCode(code)
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "profile fetch failed", err)
		return
	}
	response.Success(c, affiliate)
}

// GetMyStats returns the calling affiliate's funnel summary.
func (h *Handler) GetMyStats(c *gin.Context) {
	code, ok := getAffiliateCode(c)
	if !ok {
		return
	}
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "stats fetch failed", nil)
		return
	}
	stats, err := h.AffiliateService.Stats(code)
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "stats fetch failed", err)
		return
	}
	response.Success(c, stats)
}

// ListMyLeads returns the calling affiliate's tickets.
func (h *Handler) ListMyLeads(c *gin.Context) {
	code, ok := getAffiliateCode(c)
	if !ok {
		return
	}
	if h.LeadService == nil {
		respondError(c, response.CodeInternal, "lead fetch failed", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.LeadService.ListLeads(repository.LeadListFilter{
		AffiliateCode: code,
		Status:        strings.TrimSpace(c.Query("status")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "lead fetch failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// ListMyWithdrawals returns the calling affiliate's payout requests.
func (h *Handler) ListMyWithdrawals(c *gin.Context) {
	code, ok := getAffiliateCode(c)
	if !ok {
		return
	}
	if h.WithdrawalService == nil {
		respondError(c, response.CodeInternal, "withdrawal fetch failed", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.WithdrawalService.ListRequests(repository.WithdrawalListFilter{
		AffiliateCode: code,
		Status:        strings.TrimSpace(c.Query("status")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "withdrawal fetch failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// WithdrawalCreateRequest is the payout request payload.
type WithdrawalCreateRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	PixKey        string          `json:"pix_key"`
	CryptoCoin    string          `json:"crypto_coin"`
	CryptoNetwork string          `json:"crypto_network"`
	WalletAddress string          `json:"wallet_address"`
}

// RequestWithdrawal opens a payout request for the calling affiliate.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	code, ok := getAffiliateCode(c)
	if !ok {
		return
	}
	var req WithdrawalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.WithdrawalService == nil {
		respondError(c, response.CodeInternal, "withdrawal request failed", nil)
		return
	}

	request, err := h.WithdrawalService.Request(service.WithdrawalRequestInput{
		AffiliateCode: code,
		Amount:        req.Amount,
		Method:        req.Method,
		PixKey:        req.PixKey,
		CryptoCoin:    req.CryptoCoin,
		CryptoNetwork: req.CryptoNetwork,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		respondWithdrawalRequestError(c, err)
		return
	}
	response.Success(c, request)
}

// GetRanking returns the top earners leaderboard.
func (h *Handler) GetRanking(c *gin.Context) {
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "ranking fetch failed", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.AffiliateService.Ranking(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "ranking fetch failed", err)
		return
	}
	entries := make([]gin.H, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, gin.H{
			"position":       i + 1,
			"name":           row.Name,
			"affiliate_code": row.AffiliateCode,
			"tier":           row.Tier,
			"total_sales":    row.TotalSales,
			"total_earnings": row.TotalEarnings,
		})
	}
	response.Success(c, entries)
}

// GetSwapConfig returns the public slice of the swap economics: the
// fee band quoted to clients and the minimum transaction size.
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
	response.Success(c, gin.H{
		"min_fee":         setting.MinFee,
		"max_fee":         setting.MaxFee,
		"estimate_fee":    setting.EstimateFeePercent(),
		"min_transaction": setting.MinTransaction,
	})
}
