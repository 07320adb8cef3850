package shared

import (
	"strings"

	"github.com/vultos-swap/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextString reads a string value from the request context,
// replying unauthorized when it is missing or empty.
func GetContextString(c *gin.Context, key, invalidMsg string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return "", false
	}
	str, ok := value.(string)
	if !ok || strings.TrimSpace(str) == "" {
		RespondError(c, response.CodeUnauthorized, invalidMsg, nil)
		return "", false
	}
	return str, true
}
