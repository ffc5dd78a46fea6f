package service

import (
	"context"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/repository"
)

// StaffOrderListQuery 核销员订单列表查询参数
type StaffOrderListQuery struct {
	Page      int
	PageSize  int
	Assigned  bool // 为真时切到未接单公共池视图
	StoreName string
	Date      string
	Statuses  []int
}

// DeliveryOrderListQuery 配送订单列表查询参数
type DeliveryOrderListQuery struct {
	Page     int
	PageSize int
	Status   *int
	Keyword  string
}

// OrderQueryService 订单读路径，所有查询强制落在角色覆盖的商户集合内
type OrderQueryService struct {
	orderRepo       repository.OrderRepository
	configService   *MerchantConfigService
	defaultPageSize int
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orderRepo repository.OrderRepository, configService *MerchantConfigService, defaultPageSize int) *OrderQueryService {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &OrderQueryService{
		orderRepo:       orderRepo,
		configService:   configService,
		defaultPageSize: defaultPageSize,
	}
}

// ListStaffOrders 核销员视角的预约单列表。
// assigned 视图展示未接单公共池，指派模式商户不出现在池中；
// 否则只展示本人已接单的订单。
func (s *OrderQueryService) ListStaffOrders(ctx context.Context, roleMap *RoleMap, query StaffOrderListQuery) ([]models.Order, int64, error) {
	merIDs := roleMap.StaffMerIDs()
	if len(merIDs) == 0 {
		return []models.Order{}, 0, nil
	}

	orderType := constants.OrderTypeReservation
	filter := repository.OrderListFilter{
		Page:            query.Page,
		PageSize:        s.pageSize(query.PageSize),
		MerIDs:          merIDs,
		OrderType:       &orderType,
		PaidOnly:        true,
		Keyword:         query.StoreName,
		ReservationDate: query.Date,
		Statuses:        query.Statuses,
	}

	if query.Assigned {
		poolMerIDs, err := s.poolMerchants(ctx, merIDs)
		if err != nil {
			return nil, 0, err
		}
		if len(poolMerIDs) == 0 {
			return []models.Order{}, 0, nil
		}
		filter.MerIDs = poolMerIDs
		filter.OnlyUnassigned = true
		filter.Statuses = []int{constants.OrderStatusUnassigned}
	} else {
		filter.StaffsIDs = roleMap.StaffIDs()
		if len(filter.StaffsIDs) == 0 {
			return []models.Order{}, 0, nil
		}
	}

	return s.orderRepo.List(filter)
}

// ListDeliveryOrders 配送员视角的配送单列表。
// 第三方承运或关闭自配送的商户订单在取页后内存剔除，total 同步扣减。
func (s *OrderQueryService) ListDeliveryOrders(ctx context.Context, roleMap *RoleMap, query DeliveryOrderListQuery) ([]models.Order, int64, error) {
	merIDs := roleMap.CourierMerIDs()
	if len(merIDs) == 0 {
		return []models.Order{}, 0, nil
	}

	filter := repository.OrderListFilter{
		Page:         query.Page,
		PageSize:     s.pageSize(query.PageSize),
		MerIDs:       merIDs,
		PaidOnly:     true,
		Keyword:      query.Keyword,
		WithDelivery: true,
		HasDelivery:  true,
	}
	if query.Status != nil {
		filter.DeliveryStatuses = []int{*query.Status}
		if *query.Status != constants.DeliveryStatusUnclaimed {
			// 已接单视图只看自己名下的配送单
			filter.ServiceIDs = roleMap.CourierIDs()
		}
	}

	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	flagsByMer, err := s.configService.GetMany(ctx, merIDs)
	if err != nil {
		return nil, 0, err
	}

	visible := make([]models.Order, 0, len(orders))
	excluded := int64(0)
	for _, order := range orders {
		if order.DeliveryOrder != nil && order.DeliveryOrder.CarrierType == constants.DeliveryCarrierExternal {
			excluded++
			continue
		}
		if flags, ok := flagsByMer[order.MerID]; ok && !flags.DeliveryOrderStatus {
			excluded++
			continue
		}
		visible = append(visible, order)
	}

	total -= excluded
	if total < 0 {
		total = 0
	}
	return visible, total, nil
}

// GetStaffOrder 核销员视角的订单详情
func (s *OrderQueryService) GetStaffOrder(roleMap *RoleMap, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeStaffOrder(roleMap, order, constants.ActionView); err != nil {
		return nil, err
	}
	return order, nil
}

// GetDeliveryOrder 配送员视角的订单详情
func (s *OrderQueryService) GetDeliveryOrder(roleMap *RoleMap, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	var delivery *models.DeliveryOrder
	if order != nil {
		delivery = order.DeliveryOrder
	}
	if err := AuthorizeDeliveryOrder(roleMap, order, delivery, constants.ActionView); err != nil {
		return nil, err
	}
	return order, nil
}

// poolMerchants 过滤出开放公共接单池的商户（未开启指派模式）
func (s *OrderQueryService) poolMerchants(ctx context.Context, merIDs []uint) ([]uint, error) {
	flagsByMer, err := s.configService.GetMany(ctx, merIDs)
	if err != nil {
		return nil, err
	}
	pool := make([]uint, 0, len(merIDs))
	for _, merID := range merIDs {
		if flags, ok := flagsByMer[merID]; ok && flags.EnableAssigned {
			continue
		}
		pool = append(pool, merID)
	}
	return pool, nil
}

func (s *OrderQueryService) pageSize(requested int) int {
	if requested <= 0 {
		return s.defaultPageSize
	}
	return requested
}
