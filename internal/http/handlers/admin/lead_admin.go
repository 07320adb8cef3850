package admin

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

// LeadCreateRequest opens a swap ticket. FeePercent is the quoted fee
// when one was already agreed; omit it to use the band midpoint.
type LeadCreateRequest struct {
	AffiliateCode    string          `json:"affiliate_code" binding:"required"`
	ClientDiscordID  string          `json:"client_discord_id"`
	ClientName       string          `json:"client_name"`
	ServiceType      string          `json:"service_type"`
	CryptoCoin       string          `json:"crypto_coin"`
	TransactionValue decimal.Decimal `json:"transaction_value" binding:"required"`
	FeePercent       decimal.Decimal `json:"fee_percent"`
}

// SaleConfirmRequest settles a ticket with the value and fee the deal
// actually closed at. FinalValue defaults to the intake value.
type SaleConfirmRequest struct {
	FinalValue decimal.Decimal `json:"final_value"`
	FeePercent decimal.Decimal `json:"fee_percent" binding:"required"`
}

// CreateLead opens a ticket on behalf of a client conversation.
func (h *Handler) CreateLead(c *gin.Context) {
	var req LeadCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.LeadService == nil {
		respondError(c, response.CodeInternal, "lead create failed", nil)
		return
	}

	lead, err := h.LeadService.CreateLead(service.LeadCreateInput{
		AffiliateCode:    req.AffiliateCode,
		ClientDiscordID:  req.ClientDiscordID,
		ClientName:       req.ClientName,
		ServiceType:      req.ServiceType,
		CryptoCoin:       req.CryptoCoin,
		TransactionValue: req.TransactionValue,
		FeePercent:       req.FeePercent,
	})
	if err != nil {
		respondLeadCreateError(c, err)
		return
	}
	response.Success(c, lead)
}

// ConfirmSale settles a ticket.
func (h *Handler) ConfirmSale(c *gin.Context) {
	operator, ok := getOperatorDiscordID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "lead id invalid", nil)
		return
	}
	var req SaleConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.LeadService == nil {
		respondError(c, response.CodeInternal, "sale confirm failed", nil)
		return
	}

	lead, err := h.LeadService.ConfirmSale(uint(id), req.FinalValue, req.FeePercent, operator)
	if err != nil {
		respondLeadConfirmError(c, err)
		return
	}
	response.Success(c, lead)
}

// GetLead fetches one ticket.
func (h *Handler) GetLead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "lead id invalid", nil)
		return
	}
	if h.LeadService == nil {
		respondError(c, response.CodeInternal, "lead fetch failed", nil)
		return
	}
	lead, err := h.LeadService.GetLead(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondError(c, response.CodeNotFound, "lead not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "lead fetch failed", err)
		return
	}
	response.Success(c, lead)
}

// ListLeads queries tickets.
func (h *Handler) ListLeads(c *gin.Context) {
	if h.LeadService == nil {
		respondError(c, response.CodeInternal, "lead fetch failed", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.LeadService.ListLeads(repository.LeadListFilter{
		AffiliateCode: strings.TrimSpace(c.Query("affiliate_code")),
		Status:        strings.TrimSpace(c.Query("status")),
		ServiceType:   strings.TrimSpace(c.Query("service_type")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "lead fetch failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
