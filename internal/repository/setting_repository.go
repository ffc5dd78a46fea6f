package repository

import (
	"errors"

	"github.com/merchant-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository 商户配置数据访问接口
type SettingRepository interface {
	Get(merID uint) (*models.MerchantSetting, error)
	Upsert(setting *models.MerchantSetting) error
}

// GormSettingRepository GORM 实现
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建商户配置仓库
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get 获取商户配置
func (r *GormSettingRepository) Get(merID uint) (*models.MerchantSetting, error) {
	var setting models.MerchantSetting
	if err := r.db.Where("mer_id = ?", merID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert 写入商户配置，存在则整体覆盖
func (r *GormSettingRepository) Upsert(setting *models.MerchantSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value_json", "updated_at"}),
	}).Create(setting).Error
}
