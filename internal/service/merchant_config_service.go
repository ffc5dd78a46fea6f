package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/merchant-next/internal/cache"
	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/repository"
)

// MerchantFlags 商户派单相关的功能开关
type MerchantFlags struct {
	DeliveryOrderStatus bool `json:"mer_delivery_order_status"` // 自配送接单开关
	EnableAssigned      bool `json:"enable_assigned"`           // 指派模式，开启后关闭公共接单池
	EnableCheckin       bool `json:"enable_checkin"`            // 上门打卡开关
	CheckinRadius       int  `json:"checkin_radius"`            // 打卡半径（米）
	EnableTrace         bool `json:"enable_trace"`              // 服务凭证开关
	TraceFormID         uint `json:"trace_form_id"`             // 凭证表单 ID
}

// DefaultMerchantFlags 未配置商户的默认开关
func DefaultMerchantFlags() MerchantFlags {
	return MerchantFlags{
		DeliveryOrderStatus: true,
	}
}

// MerchantConfigService 商户配置服务，读路径带 Redis 缓存
type MerchantConfigService struct {
	settingRepo repository.SettingRepository
	cacheTTL    time.Duration
}

// NewMerchantConfigService 创建商户配置服务
func NewMerchantConfigService(settingRepo repository.SettingRepository, cacheTTLSeconds int) *MerchantConfigService {
	ttl := time.Duration(cacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MerchantConfigService{
		settingRepo: settingRepo,
		cacheTTL:    ttl,
	}
}

func merchantConfigCacheKey(merID uint) string {
	return fmt.Sprintf("merchant_config:%d", merID)
}

// Get 读取商户开关，缓存未命中时回源数据库
func (s *MerchantConfigService) Get(ctx context.Context, merID uint) (MerchantFlags, error) {
	flags := DefaultMerchantFlags()
	if merID == 0 {
		return flags, nil
	}

	var cached MerchantFlags
	hit, err := cache.GetJSON(ctx, merchantConfigCacheKey(merID), &cached)
	if err != nil {
		logger.Warnw("merchant_config_cache_read_failed", "mer_id", merID, "error", err)
	} else if hit {
		return cached, nil
	}

	setting, err := s.settingRepo.Get(merID)
	if err != nil {
		return flags, err
	}
	if setting != nil {
		flags = decodeFlags(setting.ValueJSON)
	}

	if err := cache.SetJSON(ctx, merchantConfigCacheKey(merID), flags, s.cacheTTL); err != nil {
		logger.Warnw("merchant_config_cache_write_failed", "mer_id", merID, "error", err)
	}
	return flags, nil
}

// GetMany 批量读取多商户开关
func (s *MerchantConfigService) GetMany(ctx context.Context, merIDs []uint) (map[uint]MerchantFlags, error) {
	result := make(map[uint]MerchantFlags, len(merIDs))
	for _, merID := range merIDs {
		if _, ok := result[merID]; ok {
			continue
		}
		flags, err := s.Get(ctx, merID)
		if err != nil {
			return nil, err
		}
		result[merID] = flags
	}
	return result, nil
}

// Update 保存商户开关并失效缓存
func (s *MerchantConfigService) Update(ctx context.Context, merID uint, flags MerchantFlags) error {
	if merID == 0 {
		return ErrMerchantNotFound
	}
	value, err := encodeFlags(flags)
	if err != nil {
		return err
	}
	if err := s.settingRepo.Upsert(&models.MerchantSetting{
		MerID:     merID,
		ValueJSON: value,
	}); err != nil {
		return err
	}
	if err := cache.Del(ctx, merchantConfigCacheKey(merID)); err != nil {
		logger.Warnw("merchant_config_cache_invalidate_failed", "mer_id", merID, "error", err)
	}
	return nil
}

func decodeFlags(raw models.JSON) MerchantFlags {
	flags := DefaultMerchantFlags()
	if len(raw) == 0 {
		return flags
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		logger.Warnw("merchant_config_decode_failed", "error", err)
		return flags
	}
	if err := json.Unmarshal(payload, &flags); err != nil {
		logger.Warnw("merchant_config_decode_failed", "error", err)
		return DefaultMerchantFlags()
	}
	return flags
}

func encodeFlags(flags MerchantFlags) (models.JSON, error) {
	payload, err := json.Marshal(flags)
	if err != nil {
		return nil, err
	}
	var value models.JSON
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, err
	}
	return value, nil
}
