package public

import (
	handlershared "github.com/vultos-swap/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func getDiscordID(c *gin.Context) (string, bool) {
	return handlershared.GetContextString(c, "discord_id", "discord id missing")
}

func getAffiliateCode(c *gin.Context) (string, bool) {
	return handlershared.GetContextString(c, "affiliate_code", "affiliate code missing")
}
