package repository

import (
	"errors"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	DispatchToStaff(orderID uint, staffsID uint) (bool, error)
	SaveCheckIn(orderID uint, clockInInfo string) (bool, error)
	SaveVoucher(orderID uint, voucher string) (bool, error)
	MarkVerified(orderID uint) (bool, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 根据 ID 获取订单（含配送单）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("DeliveryOrder").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表，条件过滤 + 分页。
// 涉及配送单维度的过滤通过 JOIN 下推，列名统一带表前缀避免歧义。
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{}).Where("orders.is_del = ?", false)

	// mer_ids 为空直接返回空集，租户隔离兜底
	if len(filter.MerIDs) == 0 {
		return orders, 0, nil
	}
	query = query.Where("orders.mer_id IN ?", filter.MerIDs)

	if filter.HasDelivery || len(filter.DeliveryStatuses) > 0 || len(filter.ServiceIDs) > 0 {
		query = query.Joins("JOIN delivery_orders ON delivery_orders.order_id = orders.id")
		if len(filter.DeliveryStatuses) > 0 {
			query = query.Where("delivery_orders.status IN ?", filter.DeliveryStatuses)
		}
		if len(filter.ServiceIDs) > 0 {
			query = query.Where("delivery_orders.service_id IN ?", filter.ServiceIDs)
		}
	}

	if filter.PaidOnly {
		query = query.Where("orders.paid = ?", true)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("orders.status IN ?", filter.Statuses)
	}
	if filter.OrderType != nil {
		query = query.Where("orders.order_type = ?", *filter.OrderType)
	}
	if filter.OnlyUnassigned {
		query = query.Where("orders.staffs_id = ?", 0)
	} else if len(filter.StaffsIDs) > 0 {
		query = query.Where("orders.staffs_id IN ?", filter.StaffsIDs)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("orders.store_name LIKE ? OR orders.user_name LIKE ? OR orders.user_phone LIKE ?", kw, kw, kw)
	}
	if filter.ReservationDate != "" {
		query = query.Where("orders.reservation_date = ?", filter.ReservationDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if filter.WithDelivery {
		query = query.Preload("DeliveryOrder")
	}
	if err := query.Order("orders.id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// DispatchToStaff 核销员接单，条件更新保证同一订单只被接走一次。
// 返回 false 表示订单已被他人接走或前置条件不再满足。
func (r *GormOrderRepository) DispatchToStaff(orderID uint, staffsID uint) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND staffs_id = ? AND order_type = ? AND paid = ? AND is_del = ?",
			orderID, 0, constants.OrderTypeReservation, true, false).
		Update("staffs_id", staffsID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaveCheckIn 保存打卡信息，仅服务中订单可打卡
func (r *GormOrderRepository) SaveCheckIn(orderID uint, clockInInfo string) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND paid = ? AND is_del = ?",
			orderID, constants.OrderStatusInService, true, false).
		Updates(map[string]interface{}{
			"clock_in_info": clockInInfo,
			"status":        constants.OrderStatusInService,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaveVoucher 保存服务凭证，仅待凭证状态可提交
func (r *GormOrderRepository) SaveVoucher(orderID uint, voucher string) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND is_del = ?",
			orderID, constants.OrderStatusAwaitingVoucher, false).
		Update("service_voucher", voucher)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkVerified 核销完成，待凭证 -> 已核销
func (r *GormOrderRepository) MarkVerified(orderID uint) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND is_del = ?",
			orderID, constants.OrderStatusAwaitingVoucher, false).
		Update("status", constants.OrderStatusVerified)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateFields 更新任意字段
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}
