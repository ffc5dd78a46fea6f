package provider

import (
	"github.com/merchant-next/internal/authz"
	"github.com/merchant-next/internal/cache"
	"github.com/merchant-next/internal/config"
	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/queue"
	"github.com/merchant-next/internal/repository"
	"github.com/merchant-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo    repository.AdminRepository
	UserRepo     repository.UserRepository
	MerchantRepo repository.MerchantRepository
	OrderRepo    repository.OrderRepository
	DeliveryRepo repository.DeliveryOrderRepository
	StaffRepo    repository.StaffRepository
	ServiceRepo  repository.ServiceRepository
	SettingRepo  repository.SettingRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	CaptchaService        *service.CaptchaService
	RoleService           *service.RoleService
	MerchantConfigService *service.MerchantConfigService
	OrderQueryService     *service.OrderQueryService
	DispatchService       *service.DispatchService
	RosterService         *service.RosterService
	OrderCompleter        service.OrderCompleter
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.MerchantRepo = repository.NewMerchantRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DeliveryRepo = repository.NewDeliveryOrderRepository(db)
	c.StaffRepo = repository.NewStaffRepository(db)
	c.ServiceRepo = repository.NewServiceRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else {
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Warnw("provider_bootstrap_authz_roles_failed", "error", err)
		}
		c.AuthzService = authzService
	}

	c.AuthService = service.NewAuthService(cfg, c.UserRepo, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.RoleService = service.NewRoleService(c.UserRepo, c.StaffRepo, c.ServiceRepo)
	c.MerchantConfigService = service.NewMerchantConfigService(c.SettingRepo, cfg.Dispatch.ConfigCacheTTLSeconds)
	c.OrderQueryService = service.NewOrderQueryService(c.OrderRepo, c.MerchantConfigService, cfg.Dispatch.DefaultPageSize)
	c.OrderCompleter = service.NewOrderCompleter(c.OrderRepo, c.StaffRepo)
	c.DispatchService = service.NewDispatchService(
		c.OrderRepo,
		c.DeliveryRepo,
		c.MerchantConfigService,
		c.OrderCompleter,
		c.QueueClient,
	)
	c.RosterService = service.NewRosterService(c.StaffRepo, c.ServiceRepo, c.UserRepo, c.MerchantRepo)
}
