package service

import (
	"context"
	"strings"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/queue"
	"github.com/merchant-next/internal/repository"

	"github.com/hibiken/asynq"
)

// DispatchNotifier 派单事件通知出口，投递失败只记日志不影响主流程
type DispatchNotifier interface {
	EnqueueDispatchEvent(payload queue.DispatchEventPayload, opts ...asynq.Option) error
}

// DispatchService 接单/派单状态机。
// 所有认领类转换是单条条件 UPDATE，受影响行数即成功信号，绝不先读后写。
type DispatchService struct {
	orderRepo     repository.OrderRepository
	deliveryRepo  repository.DeliveryOrderRepository
	configService *MerchantConfigService
	completer     OrderCompleter
	notifier      DispatchNotifier
}

// NewDispatchService 创建派单状态机
func NewDispatchService(
	orderRepo repository.OrderRepository,
	deliveryRepo repository.DeliveryOrderRepository,
	configService *MerchantConfigService,
	completer OrderCompleter,
	notifier DispatchNotifier,
) *DispatchService {
	return &DispatchService{
		orderRepo:     orderRepo,
		deliveryRepo:  deliveryRepo,
		configService: configService,
		completer:     completer,
		notifier:      notifier,
	}
}

// Receive 配送员接单。租户级授权即可，订单此刻还没有归属；
// 归属写入由条件 UPDATE 保证原子，抢单失败方收到 ErrAlreadyClaimed。
func (s *DispatchService) Receive(ctx context.Context, roleMap *RoleMap, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := AuthorizeDeliveryOrder(roleMap, order, deliveryOf(order), constants.ActionReceive); err != nil {
		return err
	}
	delivery := deliveryOf(order)
	if delivery == nil {
		return ErrOrderNotFound
	}
	if delivery.CarrierType == constants.DeliveryCarrierExternal {
		return ErrSelfDeliveryOff
	}

	flags, err := s.configService.Get(ctx, order.MerID)
	if err != nil {
		return err
	}
	if !flags.DeliveryOrderStatus {
		return ErrSelfDeliveryOff
	}

	courier := roleMap.Couriers[order.MerID]
	claimed, err := s.deliveryRepo.Claim(orderID, courier.ID)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrAlreadyClaimed
	}

	s.notify(constants.EventOrderClaimed, order, courier.UID)
	return nil
}

// Confirm 确认送达。沿用原有口径，只做租户级检查，
// 本商户任意配送角色持有者均可确认。
func (s *DispatchService) Confirm(roleMap *RoleMap, orderID uint, merID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := AuthorizeDeliveryOrder(roleMap, order, deliveryOf(order), constants.ActionConfirm); err != nil {
		return err
	}
	if order.MerID != merID {
		return ErrNotYourMerchant
	}

	confirmed, err := s.deliveryRepo.Confirm(orderID, merID)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmFailed
	}

	courier := roleMap.Couriers[order.MerID]
	s.notify(constants.EventOrderConfirmed, order, courier.UID)
	return nil
}

// Mark 配送备注，实例级授权，纯元数据更新无状态转换
func (s *DispatchService) Mark(roleMap *RoleMap, orderID uint, remark string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := AuthorizeDeliveryOrder(roleMap, order, deliveryOf(order), constants.ActionMark); err != nil {
		return err
	}
	return s.deliveryRepo.UpdateRemark(orderID, strings.TrimSpace(remark))
}

// ReservationDispatch 核销员接单，staffs_id = 0 的条件 UPDATE 保证至多一次
func (s *DispatchService) ReservationDispatch(roleMap *RoleMap, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := AuthorizeStaffOrder(roleMap, order, constants.ActionDispatch); err != nil {
		return err
	}

	staff := roleMap.Staff[order.MerID]
	dispatched, err := s.orderRepo.DispatchToStaff(orderID, staff.ID)
	if err != nil {
		return err
	}
	if !dispatched {
		return ErrAlreadyDispatched
	}

	s.notify(constants.EventOrderDispatched, order, staff.UID)
	return nil
}

// CheckIn 上门打卡。实例级授权；打卡载荷是客户端自定义 JSON，
// 这里只校验可解析性不校验 schema。状态守卫由条件 UPDATE 承担，
// 非服务中订单一律按不可操作处理。
func (s *DispatchService) CheckIn(ctx context.Context, roleMap *RoleMap, orderID uint, clockInInfo string) error {
	if err := models.ValidateRawJSON(clockInInfo); err != nil {
		return ErrPayloadNotJSON
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := AuthorizeStaffOrder(roleMap, order, constants.ActionCheckIn); err != nil {
		return err
	}

	flags, err := s.configService.Get(ctx, order.MerID)
	if err != nil {
		return err
	}
	if !flags.EnableCheckin {
		return ErrCheckinDisabled
	}

	saved, err := s.orderRepo.SaveCheckIn(orderID, clockInInfo)
	if err != nil {
		return err
	}
	if !saved {
		return ErrOrderNotFound
	}

	staff := roleMap.Staff[order.MerID]
	s.notify(constants.EventOrderCheckedIn, order, staff.UID)
	return nil
}

// AddTrace 提交服务凭证。实例级授权；只在待凭证状态写入，不做状态转换
func (s *DispatchService) AddTrace(ctx context.Context, roleMap *RoleMap, orderID uint, voucher string) error {
	if err := models.ValidateRawJSON(voucher); err != nil {
		return ErrPayloadNotJSON
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := AuthorizeStaffOrder(roleMap, order, constants.ActionAddTrace); err != nil {
		return err
	}

	flags, err := s.configService.Get(ctx, order.MerID)
	if err != nil {
		return err
	}
	if !flags.EnableTrace {
		return ErrTraceDisabled
	}

	saved, err := s.orderRepo.SaveVoucher(orderID, voucher)
	if err != nil {
		return err
	}
	if !saved {
		return ErrOperationFailed
	}
	return nil
}

// Verify 核销。沿用原有口径只做租户级检查，最终状态变更
// 与计数交给 OrderCompleter 协作方。
func (s *DispatchService) Verify(roleMap *RoleMap, orderID uint, merID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := AuthorizeStaffOrder(roleMap, order, constants.ActionVerify); err != nil {
		return err
	}
	if order.MerID != merID {
		return ErrNotYourMerchant
	}

	if err := s.completer.Complete(orderID, order.StaffsID); err != nil {
		return err
	}

	staff := roleMap.Staff[order.MerID]
	s.notify(constants.EventOrderVerified, order, staff.UID)
	return nil
}

// notify 异步通知，失败只告警
func (s *DispatchService) notify(event string, order *models.Order, actorID uint) {
	if s.notifier == nil || order == nil {
		return
	}
	payload := queue.DispatchEventPayload{
		Event:   event,
		OrderID: order.ID,
		MerID:   order.MerID,
		ActorID: actorID,
	}
	if err := s.notifier.EnqueueDispatchEvent(payload); err != nil {
		logger.Warnw("dispatch_notify_enqueue_failed",
			"event", event, "order_id", order.ID, "error", err)
	}
}

func deliveryOf(order *models.Order) *models.DeliveryOrder {
	if order == nil {
		return nil
	}
	return order.DeliveryOrder
}
