package main

import (
	"time"

	"github.com/merchant-next/internal/authz"
	"github.com/merchant-next/internal/config"
	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据的统一登录密码
const demoPassword = "123456"

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认超级管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}
	passwordHash := string(hash)

	// 商户
	merchants := []models.Merchant{
		{Name: "云璟生活超市", Status: constants.MerchantStatusOpen},
		{Name: "山海家政服务", Status: constants.MerchantStatusOpen},
	}
	merchantIDs := map[string]uint{}
	for _, mer := range merchants {
		var existing models.Merchant
		if err := models.DB.Where("name = ?", mer.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&mer).Error; err != nil {
				stdLog.Printf("Failed to create merchant %s: %v", mer.Name, err)
				continue
			}
			stdLog.Printf("Created merchant: %s (id=%d)", mer.Name, mer.ID)
			merchantIDs[mer.Name] = mer.ID
		} else {
			stdLog.Printf("Merchant already exists: %s (id=%d)", existing.Name, existing.ID)
			merchantIDs[existing.Name] = existing.ID
		}
	}
	superMarketID := merchantIDs["云璟生活超市"]
	houseKeepingID := merchantIDs["山海家政服务"]

	// 账号（核销员 / 配送员 / 子账号）
	users := []models.User{
		{Phone: "13800000001", Name: "赵核销", PasswordHash: passwordHash, Status: constants.UserStatusEnabled},
		{Phone: "13800000002", Name: "钱配送", PasswordHash: passwordHash, Status: constants.UserStatusEnabled},
		{Phone: "13800000003", Name: "孙双角色", PasswordHash: passwordHash, Status: constants.UserStatusEnabled},
	}
	userIDs := map[string]uint{}
	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("phone = ?", user.Phone).First(&existing).Error; err != nil {
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Phone, err)
				continue
			}
			stdLog.Printf("Created user: %s (uid=%d)", user.Phone, user.ID)
			userIDs[user.Phone] = user.ID
		} else {
			stdLog.Printf("User already exists: %s (uid=%d)", existing.Phone, existing.ID)
			userIDs[existing.Phone] = existing.ID
		}
	}

	// 子账号：登录后沿用主账号的客服/配送角色
	if mainUID := userIDs["13800000002"]; mainUID != 0 {
		sub := models.User{
			Phone:        "13800000004",
			Name:         "钱配送子账号",
			PasswordHash: passwordHash,
			MainUID:      mainUID,
			Status:       constants.UserStatusEnabled,
		}
		var existing models.User
		if err := models.DB.Where("phone = ?", sub.Phone).First(&existing).Error; err != nil {
			if err := models.DB.Create(&sub).Error; err != nil {
				stdLog.Printf("Failed to create sub account: %v", err)
			} else {
				stdLog.Printf("Created sub account: %s (main_uid=%d)", sub.Phone, mainUID)
			}
		}
	}

	// 核销员花名册
	staffs := []models.Staff{
		{MerID: superMarketID, UID: userIDs["13800000001"], Name: "赵核销", Phone: "13800000001", Status: constants.RosterStatusEnabled},
		{MerID: houseKeepingID, UID: userIDs["13800000003"], Name: "孙双角色", Phone: "13800000003", Status: constants.RosterStatusEnabled},
	}
	staffIDs := map[uint]uint{}
	for _, staff := range staffs {
		if staff.MerID == 0 || staff.UID == 0 {
			continue
		}
		var existing models.Staff
		if err := models.DB.Where("mer_id = ? AND uid = ?", staff.MerID, staff.UID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&staff).Error; err != nil {
				stdLog.Printf("Failed to create staff (mer=%d uid=%d): %v", staff.MerID, staff.UID, err)
				continue
			}
			stdLog.Printf("Created staff: %s @ mer %d (staffs_id=%d)", staff.Name, staff.MerID, staff.ID)
			staffIDs[staff.MerID] = staff.ID
		} else {
			staffIDs[existing.MerID] = existing.ID
		}
	}

	// 客服/配送员花名册
	services := []models.Service{
		{MerID: superMarketID, UID: userIDs["13800000002"], Name: "钱配送", Phone: "13800000002", Status: constants.RosterStatusEnabled, Customer: true, Delivery: true},
		{MerID: houseKeepingID, UID: userIDs["13800000003"], Name: "孙双角色", Phone: "13800000003", Status: constants.RosterStatusEnabled, Customer: true, Delivery: false},
	}
	serviceIDs := map[uint]uint{}
	for _, svc := range services {
		if svc.MerID == 0 || svc.UID == 0 {
			continue
		}
		var existing models.Service
		if err := models.DB.Where("mer_id = ? AND uid = ?", svc.MerID, svc.UID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&svc).Error; err != nil {
				stdLog.Printf("Failed to create service (mer=%d uid=%d): %v", svc.MerID, svc.UID, err)
				continue
			}
			stdLog.Printf("Created service: %s @ mer %d (service_id=%d)", svc.Name, svc.MerID, svc.ID)
			serviceIDs[svc.MerID] = svc.ID
		} else {
			serviceIDs[existing.MerID] = existing.ID
		}
	}

	// 商户派单开关
	settings := []models.MerchantSetting{
		{
			MerID: superMarketID,
			ValueJSON: models.JSON(map[string]interface{}{
				constants.MerchantConfigDeliveryOrderStatus: true,
				constants.MerchantConfigEnableCheckin:       true,
				constants.MerchantConfigCheckinRadius:       500,
				constants.MerchantConfigEnableTrace:         true,
			}),
		},
		{
			MerID: houseKeepingID,
			ValueJSON: models.JSON(map[string]interface{}{
				constants.MerchantConfigDeliveryOrderStatus: false,
				constants.MerchantConfigEnableAssigned:      true,
			}),
		},
	}
	for _, setting := range settings {
		if setting.MerID == 0 {
			continue
		}
		var existing models.MerchantSetting
		if err := models.DB.Where("mer_id = ?", setting.MerID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&setting).Error; err != nil {
				stdLog.Printf("Failed to create merchant setting (mer=%d): %v", setting.MerID, err)
			} else {
				stdLog.Printf("Created merchant setting for mer %d", setting.MerID)
			}
		}
	}

	// 预约单与配送单
	today := time.Now().Format("2006-01-02")
	seedOrders(stdLog, superMarketID, houseKeepingID, today)

	// 演示管理员与预置角色
	seedOpsAdmin(stdLog, passwordHash)

	stdLog.Printf("Seed finished")
}

type printfLogger interface {
	Printf(format string, v ...interface{})
}

func seedOrders(stdLog printfLogger, superMarketID, houseKeepingID uint, date string) {
	var count int64
	models.DB.Model(&models.Order{}).Count(&count)
	if count > 0 {
		stdLog.Printf("Orders already seeded (count=%d)", count)
		return
	}

	orders := []models.Order{
		// 公共接单池里的预约单
		{
			MerID: superMarketID, OrderType: constants.OrderTypeReservation,
			Status: constants.OrderStatusUnassigned, Paid: true,
			StoreName: "云璟生活超市·旗舰店", UserName: "李女士", UserPhone: "13900000001",
			PayPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(128.00)), ReservationDate: date,
		},
		{
			MerID: houseKeepingID, OrderType: constants.OrderTypeReservation,
			Status: constants.OrderStatusUnassigned, Paid: true,
			StoreName: "山海家政·保洁", UserName: "王先生", UserPhone: "13900000002",
			PayPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(299.00)), ReservationDate: date,
		},
		// 待配送接单的订单
		{
			MerID: superMarketID, OrderType: constants.OrderTypeGoods,
			Status: constants.OrderStatusDeliveryConfirm, Paid: true,
			StoreName: "云璟生活超市·旗舰店", UserName: "张同学", UserPhone: "13900000003",
			PayPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(66.50)),
		},
		// 第三方承运订单（自配送列表应排除）
		{
			MerID: superMarketID, OrderType: constants.OrderTypeGoods,
			Status: constants.OrderStatusDeliveryConfirm, Paid: true,
			StoreName: "云璟生活超市·旗舰店", UserName: "周女士", UserPhone: "13900000004",
			PayPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(45.00)),
		},
	}
	for i := range orders {
		if orders[i].MerID == 0 {
			continue
		}
		if err := models.DB.Create(&orders[i]).Error; err != nil {
			stdLog.Printf("Failed to create order: %v", err)
		}
	}

	deliveries := []models.DeliveryOrder{
		{OrderID: orders[2].ID, MerID: superMarketID, Status: constants.DeliveryStatusUnclaimed, CarrierType: constants.DeliveryCarrierSelf},
		{OrderID: orders[3].ID, MerID: superMarketID, Status: constants.DeliveryStatusUnclaimed, CarrierType: constants.DeliveryCarrierExternal},
	}
	for _, delivery := range deliveries {
		if delivery.OrderID == 0 {
			continue
		}
		if err := models.DB.Create(&delivery).Error; err != nil {
			stdLog.Printf("Failed to create delivery order: %v", err)
		}
	}
	stdLog.Printf("Created %d orders (%d with delivery)", len(orders), len(deliveries))
}

func seedOpsAdmin(stdLog printfLogger, passwordHash string) {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Printf("Failed to init authz service: %v", err)
		return
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Printf("Failed to bootstrap builtin roles: %v", err)
		return
	}

	ops := models.Admin{
		Username:     "ops",
		PasswordHash: passwordHash,
		IsSuper:      false,
		Status:       constants.UserStatusEnabled,
	}
	var existing models.Admin
	if err := models.DB.Where("username = ?", ops.Username).First(&existing).Error; err != nil {
		if err := models.DB.Create(&ops).Error; err != nil {
			stdLog.Printf("Failed to create ops admin: %v", err)
			return
		}
		stdLog.Printf("Created ops admin (id=%d)", ops.ID)
	} else {
		ops = existing
		stdLog.Printf("Ops admin already exists (id=%d)", ops.ID)
	}

	if err := authzService.SetAdminRoles(ops.ID, []string{"roster_manager", "config_manager"}); err != nil {
		stdLog.Printf("Failed to assign ops admin roles: %v", err)
		return
	}
	stdLog.Printf("Assigned roles to ops admin: roster_manager, config_manager")
}
