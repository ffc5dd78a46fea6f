package repository

import (
	"errors"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"

	"gorm.io/gorm"
)

// StaffRepository 核销员花名册数据访问接口
type StaffRepository interface {
	Create(staff *models.Staff) error
	GetByID(id uint) (*models.Staff, error)
	GetByIDWithTrashed(id uint) (*models.Staff, error)
	ListActiveByUID(uid uint) ([]models.Staff, error)
	List(filter StaffListFilter) ([]models.Staff, int64, error)
	ExistsActive(merID, uid uint) (bool, error)
	UpdateStatus(id uint, status int) error
	SoftDelete(id uint) error
	Restore(id uint) error
	IncrementServed(id uint) error
}

// GormStaffRepository GORM 实现
type GormStaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建核销员仓库
func NewStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// Create 创建核销员
func (r *GormStaffRepository) Create(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

// GetByID 根据 ID 获取核销员（不含回收站）
func (r *GormStaffRepository) GetByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// GetByIDWithTrashed 根据 ID 获取核销员（含回收站）
func (r *GormStaffRepository) GetByIDWithTrashed(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.Unscoped().First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// ListActiveByUID 获取账号名下全部启用中的核销员记录（角色解析用）
func (r *GormStaffRepository) ListActiveByUID(uid uint) ([]models.Staff, error) {
	var staffs []models.Staff
	if err := r.db.
		Where("uid = ? AND status = ?", uid, constants.RosterStatusEnabled).
		Order("id asc").
		Find(&staffs).Error; err != nil {
		return nil, err
	}
	return staffs, nil
}

// List 核销员列表
func (r *GormStaffRepository) List(filter StaffListFilter) ([]models.Staff, int64, error) {
	var staffs []models.Staff
	query := r.db.Model(&models.Staff{})
	if filter.OnlyTrashed {
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	}
	if filter.MerID != 0 {
		query = query.Where("mer_id = ?", filter.MerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
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
	if err := query.Order("id desc").Find(&staffs).Error; err != nil {
		return nil, 0, err
	}
	return staffs, total, nil
}

// ExistsActive 判断 (mer_id, uid) 是否已有未删除的行
func (r *GormStaffRepository) ExistsActive(merID, uid uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Staff{}).
		Where("mer_id = ? AND uid = ?", merID, uid).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 启用/停用
func (r *GormStaffRepository) UpdateStatus(id uint, status int) error {
	return r.db.Model(&models.Staff{}).Where("id = ?", id).Update("status", status).Error
}

// SoftDelete 移入回收站
func (r *GormStaffRepository) SoftDelete(id uint) error {
	return r.db.Delete(&models.Staff{}, id).Error
}

// Restore 从回收站恢复
func (r *GormStaffRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Staff{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// IncrementServed 核销单数 +1
func (r *GormStaffRepository) IncrementServed(id uint) error {
	return r.db.Model(&models.Staff{}).
		Where("id = ?", id).
		UpdateColumn("served_count", gorm.Expr("served_count + ?", 1)).Error
}
