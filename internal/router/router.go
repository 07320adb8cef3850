package router

import (
	"fmt"
	"strings"

	"github.com/vultos-swap/internal/cache"
	"github.com/vultos-swap/internal/config"
	adminhandlers "github.com/vultos-swap/internal/http/handlers/admin"
	publichandlers "github.com/vultos-swap/internal/http/handlers/public"
	"github.com/vultos-swap/internal/http/response"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine with all routes and middleware.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vs"
	}
	redisClient := cache.Client()
	otpIssueRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:otp_issue", redisPrefix),
		WindowSeconds: cfg.Security.OTPRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OTPRateLimit.MaxAttempts,
		Message:       "too many code requests, try again later",
	}
	otpVerifyRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:otp_verify", redisPrefix),
		WindowSeconds: cfg.Security.OTPRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OTPRateLimit.MaxAttempts,
		Message:       "too many login attempts, try again later",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetSwapConfig)
			public.GET("/ranking", publicHandler.GetRanking)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/otp/request", RateLimitMiddleware(redisClient, otpIssueRule, KeyByIPAndJSONField("discord_id")), publicHandler.RequestOTP)
			auth.POST("/otp/verify", RateLimitMiddleware(redisClient, otpVerifyRule, KeyByIPAndJSONField("discord_id")), publicHandler.VerifyOTP)
		}

		affiliate := apiV1.Group("")
		affiliate.Use(AffiliateJWTAuthMiddleware(cfg.JWT.SecretKey, c.AffiliateRepo))
		{
			affiliate.GET("/me", publicHandler.GetMyProfile)
			affiliate.GET("/me/stats", publicHandler.GetMyStats)
			affiliate.GET("/me/leads", publicHandler.ListMyLeads)
			affiliate.GET("/me/withdrawals", publicHandler.ListMyWithdrawals)
			affiliate.POST("/me/withdrawals", publicHandler.RequestWithdrawal)
		}

		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			admin.POST("/affiliates", adminHandler.CreateAffiliate)
			admin.GET("/affiliates", adminHandler.ListAffiliates)
			admin.GET("/affiliates/:code", adminHandler.GetAffiliate)
			admin.PUT("/affiliates/:code", adminHandler.UpdateAffiliate)
			admin.DELETE("/affiliates/:code", adminHandler.DeactivateAffiliate)

			admin.POST("/leads", adminHandler.CreateLead)
			admin.GET("/leads", adminHandler.ListLeads)
			admin.GET("/leads/:id", adminHandler.GetLead)
			admin.POST("/leads/:id/confirm", adminHandler.ConfirmSale)

			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.GET("/withdrawals/:id", adminHandler.GetWithdrawal)
			admin.PUT("/withdrawals/:id/status", adminHandler.SetWithdrawalStatus)

			admin.GET("/swap-config", adminHandler.GetSwapConfig)
			admin.PUT("/swap-config", adminHandler.UpdateSwapConfig)

			admin.POST("/admins", adminHandler.AddAdmin)
			admin.GET("/admins", adminHandler.ListAdmins)
			admin.DELETE("/admins/:discord_id", adminHandler.RemoveAdmin)
			admin.GET("/admins/:discord_id/check", adminHandler.CheckAdmin)
		}
	}

	return r
}
