package admin

import (
	"errors"
	"strings"

	"github.com/vultos-swap/internal/http/response"
	"github.com/vultos-swap/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminAddRequest registers a staff operator.
type AdminAddRequest struct {
	DiscordID string `json:"discord_id" binding:"required"`
	Name      string `json:"name"`
	IsSuper   bool   `json:"is_super"`
}

// AddAdmin registers a staff operator.
func (h *Handler) AddAdmin(c *gin.Context) {
	var req AdminAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.AdminService == nil {
		respondError(c, response.CodeInternal, "admin roster update failed", nil)
		return
	}
	admin, err := h.AdminService.AddAdmin(req.DiscordID, req.Name, req.IsSuper)
	if err != nil {
		respondAdminRosterError(c, err)
		return
	}
	response.Success(c, admin)
}

// RemoveAdmin drops a staff operator.
func (h *Handler) RemoveAdmin(c *gin.Context) {
	discordID := strings.TrimSpace(c.Param("discord_id"))
	if discordID == "" {
		respondError(c, response.CodeBadRequest, "discord id required", nil)
		return
	}
	if h.AdminService == nil {
		respondError(c, response.CodeInternal, "admin roster update failed", nil)
		return
	}
	if err := h.AdminService.RemoveAdmin(discordID); err != nil {
		respondAdminRosterError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// ListAdmins returns the staff roster.
func (h *Handler) ListAdmins(c *gin.Context) {
	if h.AdminService == nil {
		respondError(c, response.CodeInternal, "admin fetch failed", nil)
		return
	}
	admins, err := h.AdminService.ListAdmins()
	if err != nil {
		respondError(c, response.CodeInternal, "admin fetch failed", err)
		return
	}
	response.Success(c, admins)
}

// CheckAdmin reports whether a Discord account is staff.
func (h *Handler) CheckAdmin(c *gin.Context) {
	discordID := strings.TrimSpace(c.Param("discord_id"))
	if discordID == "" {
		respondError(c, response.CodeBadRequest, "discord id required", nil)
		return
	}
	if h.AdminService == nil {
		respondError(c, response.CodeInternal, "admin fetch failed", nil)
		return
	}
	admin, err := h.AdminService.CheckAdmin(discordID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			response.Success(c, gin.H{"is_admin": false})
			return
		}
		respondError(c, response.CodeInternal, "admin fetch failed", err)
		return
	}
	response.Success(c, gin.H{
		"is_admin": true,
		"admin":    admin,
	})
}
