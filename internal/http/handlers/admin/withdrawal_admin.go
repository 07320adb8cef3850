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

// WithdrawalSetStatusRequest moves a payout request through its state
// machine.
type WithdrawalSetStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// SetWithdrawalStatus approves, completes, or rejects a request.
func (h *Handler) SetWithdrawalStatus(c *gin.Context) {
	operator, ok := getOperatorDiscordID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "withdrawal id invalid", nil)
		return
	}
	var req WithdrawalSetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.WithdrawalService == nil {
		respondError(c, response.CodeInternal, "status update failed", nil)
		return
	}

	request, err := h.WithdrawalService.SetStatus(uint(id), req.Status, req.Notes, operator)
	if err != nil {
		respondWithdrawalSetStatusError(c, err)
		return
	}
	response.Success(c, request)
}

// GetWithdrawal fetches one payout request.
func (h *Handler) GetWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "withdrawal id invalid", nil)
		return
	}
	if h.WithdrawalService == nil {
		respondError(c, response.CodeInternal, "withdrawal fetch failed", nil)
		return
	}
	request, err := h.WithdrawalService.GetRequest(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrWithdrawalNotFound) {
			respondError(c, response.CodeNotFound, "withdrawal not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "withdrawal fetch failed", err)
		return
	}
	response.Success(c, request)
}

// ListWithdrawals queries payout requests.
func (h *Handler) ListWithdrawals(c *gin.Context) {
	if h.WithdrawalService == nil {
		respondError(c, response.CodeInternal, "withdrawal fetch failed", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.WithdrawalService.ListRequests(repository.WithdrawalListFilter{
		AffiliateCode: strings.TrimSpace(c.Query("affiliate_code")),
		Status:        strings.TrimSpace(c.Query("status")),
		Method:        strings.TrimSpace(c.Query("method")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "withdrawal fetch failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
