package repository

import (
	"errors"
	"time"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryOrderRepository 配送单数据访问接口
type DeliveryOrderRepository interface {
	Create(order *models.DeliveryOrder) error
	GetByOrderID(orderID uint) (*models.DeliveryOrder, error)
	Claim(orderID uint, serviceID uint) (bool, error)
	Confirm(orderID uint, merID uint) (bool, error)
	UpdateRemark(orderID uint, remark string) error
	WithTx(tx *gorm.DB) *GormDeliveryOrderRepository
}

// GormDeliveryOrderRepository GORM 实现
type GormDeliveryOrderRepository struct {
	db *gorm.DB
}

// NewDeliveryOrderRepository 创建配送单仓库
func NewDeliveryOrderRepository(db *gorm.DB) *GormDeliveryOrderRepository {
	return &GormDeliveryOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryOrderRepository) WithTx(tx *gorm.DB) *GormDeliveryOrderRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryOrderRepository{db: tx}
}

// Create 创建配送单
func (r *GormDeliveryOrderRepository) Create(order *models.DeliveryOrder) error {
	return r.db.Create(order).Error
}

// GetByOrderID 根据订单 ID 获取配送单
func (r *GormDeliveryOrderRepository) GetByOrderID(orderID uint) (*models.DeliveryOrder, error) {
	var order models.DeliveryOrder
	if err := r.db.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Claim 配送员接单，条件更新保证同一配送单只被接走一次。
// 返回 false 表示已被他人接走。
func (r *GormDeliveryOrderRepository) Claim(orderID uint, serviceID uint) (bool, error) {
	now := time.Now()
	result := r.db.Model(&models.DeliveryOrder{}).
		Where("order_id = ? AND service_id = ? AND status = ? AND carrier_type = ?",
			orderID, 0, constants.DeliveryStatusUnclaimed, constants.DeliveryCarrierSelf).
		Updates(map[string]interface{}{
			"service_id": serviceID,
			"status":     constants.DeliveryStatusClaimed,
			"claimed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Confirm 确认送达，已接单 -> 已确认
func (r *GormDeliveryOrderRepository) Confirm(orderID uint, merID uint) (bool, error) {
	now := time.Now()
	result := r.db.Model(&models.DeliveryOrder{}).
		Where("order_id = ? AND mer_id = ? AND status = ?",
			orderID, merID, constants.DeliveryStatusClaimed).
		Updates(map[string]interface{}{
			"status":       constants.DeliveryStatusConfirmed,
			"confirmed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateRemark 更新配送备注
func (r *GormDeliveryOrderRepository) UpdateRemark(orderID uint, remark string) error {
	return r.db.Model(&models.DeliveryOrder{}).
		Where("order_id = ?", orderID).
		Update("remark", remark).Error
}
