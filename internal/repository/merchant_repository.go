package repository

import (
	"errors"

	"github.com/merchant-next/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository 商户数据访问接口
type MerchantRepository interface {
	Create(merchant *models.Merchant) error
	GetByID(id uint) (*models.Merchant, error)
	List(filter MerchantListFilter) ([]models.Merchant, int64, error)
}

// GormMerchantRepository GORM 实现
type GormMerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository 创建商户仓库
func NewMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

// Create 创建商户
func (r *GormMerchantRepository) Create(merchant *models.Merchant) error {
	return r.db.Create(merchant).Error
}

// GetByID 根据 ID 获取商户
func (r *GormMerchantRepository) GetByID(id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// List 商户列表
func (r *GormMerchantRepository) List(filter MerchantListFilter) ([]models.Merchant, int64, error) {
	var merchants []models.Merchant
	query := r.db.Model(&models.Merchant{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&merchants).Error; err != nil {
		return nil, 0, err
	}
	return merchants, total, nil
}
