package repository

import (
	"errors"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"

	"gorm.io/gorm"
)

// ServiceRepository 客服/配送员花名册数据访问接口
type ServiceRepository interface {
	Create(service *models.Service) error
	GetByID(id uint) (*models.Service, error)
	ListActiveByUID(uid uint) ([]models.Service, error)
	List(filter ServiceListFilter) ([]models.Service, int64, error)
	ExistsActive(merID, uid uint) (bool, error)
	UpdateFlags(id uint, updates map[string]interface{}) error
}

// GormServiceRepository GORM 实现
type GormServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建客服/配送员仓库
func NewServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// Create 创建花名册记录
func (r *GormServiceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}

// GetByID 根据 ID 获取记录
func (r *GormServiceRepository) GetByID(id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// ListActiveByUID 获取账号名下全部启用中的记录（角色解析用）
func (r *GormServiceRepository) ListActiveByUID(uid uint) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.
		Where("uid = ? AND status = ?", uid, constants.RosterStatusEnabled).
		Order("id asc").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// List 花名册列表
func (r *GormServiceRepository) List(filter ServiceListFilter) ([]models.Service, int64, error) {
	var services []models.Service
	query := r.db.Model(&models.Service{})
	if filter.MerID != 0 {
		query = query.Where("mer_id = ?", filter.MerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DeliveryOnly {
		query = query.Where("delivery = ?", true)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// ExistsActive 判断 (mer_id, uid) 是否已有记录
func (r *GormServiceRepository) ExistsActive(merID, uid uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Service{}).
		Where("mer_id = ? AND uid = ?", merID, uid).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateFlags 更新状态与身份开关
func (r *GormServiceRepository) UpdateFlags(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Service{}).Where("id = ?", id).Updates(updates).Error
}
