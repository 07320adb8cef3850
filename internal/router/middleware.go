package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/vultos-swap/internal/cache"
	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/http/response"
	"github.com/vultos-swap/internal/repository"
	"github.com/vultos-swap/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const adminIsSuperContextKey = "admin_is_super"

// CORSMiddleware handles cross origin requests.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware assigns every request an id.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware writes one structured log line per request.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

func parseBearerClaims(c *gin.Context, secretKey string) *service.JWTClaims {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "authorization header missing")
		return nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		response.Unauthorized(c, "authorization header invalid")
		return nil
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.JWTClaims{}
	token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || strings.TrimSpace(claims.DiscordID) == "" {
		response.Unauthorized(c, "token invalid")
		return nil
	}
	return claims
}

// AffiliateJWTAuthMiddleware authenticates affiliate tokens. The
// account snapshot is cached so deactivation takes effect without a
// database hit per request.
func AffiliateJWTAuthMiddleware(secretKey string, affiliateRepo repository.AffiliateRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || affiliateRepo == nil {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}
		claims := parseBearerClaims(c, secretKey)
		if claims == nil {
			c.Abort()
			return
		}
		if claims.Role != constants.AuthRoleAffiliate && claims.Role != constants.AuthRoleAdmin {
			response.Forbidden(c, "affiliate access required")
			c.Abort()
			return
		}

		if cached, hit, cacheErr := cache.GetAffiliateAuthState(c.Request.Context(), claims.DiscordID); cacheErr == nil && hit && cached != nil {
			if !cached.IsActive {
				response.Forbidden(c, "affiliate disabled")
				c.Abort()
				return
			}
			c.Set("discord_id", claims.DiscordID)
			c.Set("affiliate_code", cached.AffiliateCode)
			c.Next()
			return
		}

		affiliate, err := affiliateRepo.GetByDiscordID(claims.DiscordID)
		if err != nil || affiliate == nil {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}
		if !affiliate.IsActive {
			response.Forbidden(c, "affiliate disabled")
			c.Abort()
			return
		}
		_ = cache.SetAffiliateAuthState(c.Request.Context(), cache.BuildAffiliateAuthState(affiliate))

		c.Set("discord_id", claims.DiscordID)
		c.Set("affiliate_code", affiliate.AffiliateCode)
		c.Next()
	}
}

// AdminJWTAuthMiddleware authenticates staff tokens.
func AdminJWTAuthMiddleware(secretKey string, adminRepo repository.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || adminRepo == nil {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}
		claims := parseBearerClaims(c, secretKey)
		if claims == nil {
			c.Abort()
			return
		}
		if claims.Role != constants.AuthRoleAdmin {
			response.Forbidden(c, "staff access required")
			c.Abort()
			return
		}

		if cached, hit, cacheErr := cache.GetAdminAuthState(c.Request.Context(), claims.DiscordID); cacheErr == nil && hit && cached != nil {
			c.Set("discord_id", claims.DiscordID)
			c.Set(adminIsSuperContextKey, cached.IsSuper)
			c.Next()
			return
		}

		admin, err := adminRepo.GetByDiscordID(claims.DiscordID)
		if err != nil || admin == nil {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}
		_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))

		c.Set("discord_id", claims.DiscordID)
		c.Set(adminIsSuperContextKey, admin.IsSuper)
		c.Next()
	}
}
