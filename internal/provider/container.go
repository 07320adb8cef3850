package provider

import (
	"github.com/vultos-swap/internal/cache"
	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/models"
	"github.com/vultos-swap/internal/notify"
	"github.com/vultos-swap/internal/queue"
	"github.com/vultos-swap/internal/repository"
	"github.com/vultos-swap/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	AffiliateRepo  repository.AffiliateRepository
	LeadRepo       repository.LeadRepository
	WithdrawalRepo repository.WithdrawalRepository
	OTPRepo        repository.OTPRepository
	SettingRepo    repository.SettingRepository

	// Webhook delivery
	WebhookSender *notify.Sender
	Dispatcher    *notify.Dispatcher

	// Services
	SettingService    *service.SettingService
	AffiliateService  *service.AffiliateService
	LeadService       *service.LeadService
	WithdrawalService *service.WithdrawalService
	AuthService       *service.AuthService
	AdminService      *service.AdminService
}

// NewContainer builds the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.LeadRepo = repository.NewLeadRepository(db)
	c.WithdrawalRepo = repository.NewWithdrawalRepository(db)
	c.OTPRepo = repository.NewOTPRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	c.WebhookSender = notify.NewSender(c.Config.Webhook.TimeoutMS)
	c.Dispatcher = notify.NewDispatcher(
		c.QueueClient,
		c.WebhookSender,
		c.Config.Webhook.DefaultURL,
		c.Config.Webhook.StaffURL,
	)

	c.SettingService = service.NewSettingService(c.SettingRepo, c.Config.Swap)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo, c.LeadRepo, c.SettingService, c.Dispatcher)
	c.LeadService = service.NewLeadService(c.LeadRepo, c.AffiliateRepo, c.SettingService, c.Dispatcher)
	c.WithdrawalService = service.NewWithdrawalService(c.WithdrawalRepo, c.AffiliateRepo, c.Dispatcher)
	c.AuthService = service.NewAuthService(c.Config, c.OTPRepo, c.AdminRepo, c.AffiliateRepo)
	c.AdminService = service.NewAdminService(c.AdminRepo)
}
