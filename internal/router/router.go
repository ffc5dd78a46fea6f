package router

import (
	"fmt"
	"strings"

	"github.com/merchant-next/internal/cache"
	"github.com/merchant-next/internal/config"
	actorhandlers "github.com/merchant-next/internal/http/handlers/actor"
	adminhandlers "github.com/merchant-next/internal/http/handlers/admin"
	publichandlers "github.com/merchant-next/internal/http/handlers/public"
	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/操作端/管理端分组）
	publicHandler := publichandlers.New(c)
	actorHandler := actorhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mn"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.PublicConfig)
			public.GET("/captcha/image", publicHandler.CaptchaImage)
		}

		// 操作端登录
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("phone")), publicHandler.ActorLogin)
		}

		// 操作端接口（需鉴权，角色快照按请求解析）
		actor := apiV1.Group("")
		actor.Use(ActorAuthMiddleware(c.AuthService, c.UserRepo, c.RoleService))
		{
			// 配送端
			actor.GET("/delivery/orders", actorHandler.ListDeliveryOrders)
			actor.GET("/delivery/orders/:id", actorHandler.GetDeliveryOrder)
			actor.POST("/delivery/orders/:id/receive", actorHandler.ReceiveDeliveryOrder)
			actor.POST("/delivery/orders/:id/confirm", actorHandler.ConfirmDeliveryOrder)
			actor.POST("/delivery/orders/:id/mark", actorHandler.MarkDeliveryOrder)

			// 核销端
			actor.GET("/staff/orders", actorHandler.ListStaffOrders)
			actor.GET("/staff/orders/:id", actorHandler.GetStaffOrder)
			actor.POST("/staff/orders/:id/dispatch", actorHandler.DispatchStaffOrder)
			actor.POST("/staff/orders/:id/checkin", actorHandler.CheckInStaffOrder)
			actor.POST("/staff/orders/:id/trace", actorHandler.TraceStaffOrder)
			actor.POST("/staff/orders/:id/verify", actorHandler.VerifyStaffOrder)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.Login)

			// 需要鉴权的接口
			authorized := admin.Use(AdminAuthMiddleware(c.AuthService, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 核销员花名册
				authorized.GET("/merchants/:mer_id/staffs", adminHandler.ListStaff)
				authorized.POST("/merchants/:mer_id/staffs", adminHandler.CreateStaff)
				authorized.PATCH("/merchants/:mer_id/staffs/:id/status", adminHandler.UpdateStaffStatus)
				authorized.DELETE("/merchants/:mer_id/staffs/:id", adminHandler.DeleteStaff)
				authorized.POST("/merchants/:mer_id/staffs/:id/restore", adminHandler.RestoreStaff)

				// 客服/配送员花名册
				authorized.GET("/merchants/:mer_id/services", adminHandler.ListServices)
				authorized.POST("/merchants/:mer_id/services", adminHandler.CreateService)
				authorized.PATCH("/merchants/:mer_id/services/:id", adminHandler.UpdateService)

				// 商户派单开关
				authorized.GET("/merchants/:mer_id/config", adminHandler.GetMerchantConfig)
				authorized.PUT("/merchants/:mer_id/config", adminHandler.UpdateMerchantConfig)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
