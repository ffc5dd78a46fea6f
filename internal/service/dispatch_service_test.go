package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type dispatchTestEnv struct {
	db           *gorm.DB
	orderRepo    *repository.GormOrderRepository
	deliveryRepo *repository.GormDeliveryOrderRepository
	staffRepo    *repository.GormStaffRepository
	configSvc    *MerchantConfigService
	dispatch     *DispatchService
}

func setupDispatchTest(t *testing.T, name string) *dispatchTestEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Order{}, &models.DeliveryOrder{},
		&models.Staff{}, &models.Service{}, &models.MerchantSetting{},
	); err != nil {
		t.Fatalf("migrate dispatch tables failed: %v", err)
	}

	env := &dispatchTestEnv{
		db:           db,
		orderRepo:    repository.NewOrderRepository(db),
		deliveryRepo: repository.NewDeliveryOrderRepository(db),
		staffRepo:    repository.NewStaffRepository(db),
		configSvc:    NewMerchantConfigService(repository.NewSettingRepository(db), 60),
	}
	env.dispatch = NewDispatchService(
		env.orderRepo,
		env.deliveryRepo,
		env.configSvc,
		NewOrderCompleter(env.orderRepo, env.staffRepo),
		nil,
	)
	return env
}

func (e *dispatchTestEnv) createOrder(t *testing.T, merID uint, orderType, status int, staffsID uint) *models.Order {
	t.Helper()
	order := &models.Order{
		MerID:     merID,
		OrderType: orderType,
		Status:    status,
		Paid:      true,
		StaffsID:  staffsID,
		StoreName: "测试门店",
	}
	if err := e.orderRepo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func (e *dispatchTestEnv) createDelivery(t *testing.T, orderID, merID uint, carrierType int) {
	t.Helper()
	if err := e.deliveryRepo.Create(&models.DeliveryOrder{
		OrderID:     orderID,
		MerID:       merID,
		Status:      constants.DeliveryStatusUnclaimed,
		CarrierType: carrierType,
	}); err != nil {
		t.Fatalf("create delivery order failed: %v", err)
	}
}

func (e *dispatchTestEnv) setFlags(t *testing.T, merID uint, flags MerchantFlags) {
	t.Helper()
	if err := e.configSvc.Update(context.Background(), merID, flags); err != nil {
		t.Fatalf("update merchant flags failed: %v", err)
	}
}

func courierRoleMap(merID, serviceID, uid uint) *RoleMap {
	return &RoleMap{
		UID:      uid,
		Services: map[uint]models.Service{},
		Staff:    map[uint]models.Staff{},
		Couriers: map[uint]models.Service{
			merID: {ID: serviceID, MerID: merID, UID: uid, Delivery: true},
		},
	}
}

func staffRoleMap(merID, staffsID, uid uint) *RoleMap {
	return &RoleMap{
		UID:      uid,
		Services: map[uint]models.Service{},
		Staff: map[uint]models.Staff{
			merID: {ID: staffsID, MerID: merID, UID: uid},
		},
		Couriers: map[uint]models.Service{},
	}
}

func TestDispatchReceiveClaimsOnce(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_receive")
	ctx := context.Background()
	order := env.createOrder(t, 1, constants.OrderTypeGoods, constants.OrderStatusDeliveryConfirm, 0)
	env.createDelivery(t, order.ID, 1, constants.DeliveryCarrierSelf)

	if err := env.dispatch.Receive(ctx, courierRoleMap(1, 7, 10), order.ID); err != nil {
		t.Fatalf("first receive failed: %v", err)
	}

	err := env.dispatch.Receive(ctx, courierRoleMap(1, 8, 11), order.ID)
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second receive want ErrAlreadyClaimed got %v", err)
	}

	delivery, err := env.deliveryRepo.GetByOrderID(order.ID)
	if err != nil {
		t.Fatalf("reload delivery order failed: %v", err)
	}
	if delivery.ServiceID != 7 {
		t.Fatalf("owner want 7 got %d", delivery.ServiceID)
	}
}

func TestDispatchReceiveExternalCarrier(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_receive_external")
	order := env.createOrder(t, 1, constants.OrderTypeGoods, constants.OrderStatusDeliveryConfirm, 0)
	env.createDelivery(t, order.ID, 1, constants.DeliveryCarrierExternal)

	err := env.dispatch.Receive(context.Background(), courierRoleMap(1, 7, 10), order.ID)
	if !errors.Is(err, ErrSelfDeliveryOff) {
		t.Fatalf("external carrier receive want ErrSelfDeliveryOff got %v", err)
	}
}

func TestDispatchReceiveMerchantSwitchOff(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_receive_off")
	order := env.createOrder(t, 1, constants.OrderTypeGoods, constants.OrderStatusDeliveryConfirm, 0)
	env.createDelivery(t, order.ID, 1, constants.DeliveryCarrierSelf)
	env.setFlags(t, 1, MerchantFlags{DeliveryOrderStatus: false})

	err := env.dispatch.Receive(context.Background(), courierRoleMap(1, 7, 10), order.ID)
	if !errors.Is(err, ErrSelfDeliveryOff) {
		t.Fatalf("switched-off merchant receive want ErrSelfDeliveryOff got %v", err)
	}
}

func TestDispatchReceiveCrossMerchant(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_receive_cross")
	order := env.createOrder(t, 2, constants.OrderTypeGoods, constants.OrderStatusDeliveryConfirm, 0)
	env.createDelivery(t, order.ID, 2, constants.DeliveryCarrierSelf)

	err := env.dispatch.Receive(context.Background(), courierRoleMap(1, 7, 10), order.ID)
	if !errors.Is(err, ErrNotYourMerchant) {
		t.Fatalf("cross-merchant receive want ErrNotYourMerchant got %v", err)
	}
}

func TestDispatchConfirmFlow(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_confirm")
	ctx := context.Background()
	order := env.createOrder(t, 1, constants.OrderTypeGoods, constants.OrderStatusDeliveryConfirm, 0)
	env.createDelivery(t, order.ID, 1, constants.DeliveryCarrierSelf)
	roleMap := courierRoleMap(1, 7, 10)

	// 未接单不可确认
	err := env.dispatch.Confirm(roleMap, order.ID, 1)
	if !errors.Is(err, ErrConfirmFailed) {
		t.Fatalf("confirm before claim want ErrConfirmFailed got %v", err)
	}

	if err := env.dispatch.Receive(ctx, roleMap, order.ID); err != nil {
		t.Fatalf("receive failed: %v", err)
	}

	// mer_id 不匹配
	err = env.dispatch.Confirm(roleMap, order.ID, 2)
	if !errors.Is(err, ErrNotYourMerchant) {
		t.Fatalf("confirm with wrong mer_id want ErrNotYourMerchant got %v", err)
	}

	if err := env.dispatch.Confirm(roleMap, order.ID, 1); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	delivery, err := env.deliveryRepo.GetByOrderID(order.ID)
	if err != nil {
		t.Fatalf("reload delivery order failed: %v", err)
	}
	if delivery.Status != constants.DeliveryStatusConfirmed {
		t.Fatalf("status want %d got %d", constants.DeliveryStatusConfirmed, delivery.Status)
	}
}

func TestDispatchMarkRequiresOwnership(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_mark")
	ctx := context.Background()
	order := env.createOrder(t, 1, constants.OrderTypeGoods, constants.OrderStatusDeliveryConfirm, 0)
	env.createDelivery(t, order.ID, 1, constants.DeliveryCarrierSelf)

	owner := courierRoleMap(1, 7, 10)
	if err := env.dispatch.Receive(ctx, owner, order.ID); err != nil {
		t.Fatalf("receive failed: %v", err)
	}

	err := env.dispatch.Mark(courierRoleMap(1, 8, 11), order.ID, "放在前台")
	if !errors.Is(err, ErrNotYourOrder) {
		t.Fatalf("mark by non-owner want ErrNotYourOrder got %v", err)
	}

	if err := env.dispatch.Mark(owner, order.ID, "  放在前台  "); err != nil {
		t.Fatalf("mark by owner failed: %v", err)
	}
	delivery, err := env.deliveryRepo.GetByOrderID(order.ID)
	if err != nil {
		t.Fatalf("reload delivery order failed: %v", err)
	}
	if delivery.Remark != "放在前台" {
		t.Fatalf("remark want trimmed value got %q", delivery.Remark)
	}
}

func TestReservationDispatchAtMostOnce(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_reservation")
	order := env.createOrder(t, 1, constants.OrderTypeReservation, constants.OrderStatusUnassigned, 0)

	if err := env.dispatch.ReservationDispatch(staffRoleMap(1, 55, 10), order.ID); err != nil {
		t.Fatalf("first dispatch failed: %v", err)
	}

	err := env.dispatch.ReservationDispatch(staffRoleMap(1, 66, 11), order.ID)
	if !errors.Is(err, ErrAlreadyDispatched) {
		t.Fatalf("second dispatch want ErrAlreadyDispatched got %v", err)
	}

	got, err := env.orderRepo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.StaffsID != 55 {
		t.Fatalf("owner want 55 got %d", got.StaffsID)
	}
}

func TestDispatchCheckIn(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_checkin")
	ctx := context.Background()
	order := env.createOrder(t, 1, constants.OrderTypeReservation, constants.OrderStatusInService, 55)
	roleMap := staffRoleMap(1, 55, 10)

	// 非法 JSON 在任何校验之前拒绝
	err := env.dispatch.CheckIn(ctx, roleMap, order.ID, "not json")
	if !errors.Is(err, ErrPayloadNotJSON) {
		t.Fatalf("invalid payload want ErrPayloadNotJSON got %v", err)
	}

	// 商户未开启打卡
	err = env.dispatch.CheckIn(ctx, roleMap, order.ID, `{"lat":31.2,"lng":121.5}`)
	if !errors.Is(err, ErrCheckinDisabled) {
		t.Fatalf("checkin with switch off want ErrCheckinDisabled got %v", err)
	}

	env.setFlags(t, 1, MerchantFlags{DeliveryOrderStatus: true, EnableCheckin: true, CheckinRadius: 500})

	// 非归属人不可打卡
	err = env.dispatch.CheckIn(ctx, staffRoleMap(1, 66, 11), order.ID, `{"lat":31.2}`)
	if !errors.Is(err, ErrNotYourOrder) {
		t.Fatalf("checkin by non-owner want ErrNotYourOrder got %v", err)
	}

	if err := env.dispatch.CheckIn(ctx, roleMap, order.ID, `{"lat":31.2,"lng":121.5}`); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	// 非服务中订单按不可操作处理
	waiting := env.createOrder(t, 1, constants.OrderTypeReservation, constants.OrderStatusUnassigned, 55)
	err = env.dispatch.CheckIn(ctx, roleMap, waiting.ID, `{"lat":31.2}`)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("checkin on unassigned order want ErrOrderNotFound got %v", err)
	}
}

func TestDispatchAddTrace(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_trace")
	ctx := context.Background()
	order := env.createOrder(t, 1, constants.OrderTypeReservation, constants.OrderStatusAwaitingVoucher, 55)
	roleMap := staffRoleMap(1, 55, 10)

	err := env.dispatch.AddTrace(ctx, roleMap, order.ID, `{"photos":["a.jpg"]}`)
	if !errors.Is(err, ErrTraceDisabled) {
		t.Fatalf("trace with switch off want ErrTraceDisabled got %v", err)
	}

	env.setFlags(t, 1, MerchantFlags{DeliveryOrderStatus: true, EnableTrace: true, TraceFormID: 3})

	if err := env.dispatch.AddTrace(ctx, roleMap, order.ID, `{"photos":["a.jpg"]}`); err != nil {
		t.Fatalf("trace failed: %v", err)
	}

	// 非待凭证状态不可提交
	inService := env.createOrder(t, 1, constants.OrderTypeReservation, constants.OrderStatusInService, 55)
	err = env.dispatch.AddTrace(ctx, roleMap, inService.ID, `{"photos":["a.jpg"]}`)
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("trace on in-service order want ErrOperationFailed got %v", err)
	}
}

func TestDispatchVerify(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_verify")
	staff := &models.Staff{MerID: 1, UID: 10, Name: "赵核销", Status: constants.RosterStatusEnabled}
	if err := env.staffRepo.Create(staff); err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	order := env.createOrder(t, 1, constants.OrderTypeReservation, constants.OrderStatusAwaitingVoucher, staff.ID)
	roleMap := staffRoleMap(1, staff.ID, 10)

	err := env.dispatch.Verify(roleMap, order.ID, 2)
	if !errors.Is(err, ErrNotYourMerchant) {
		t.Fatalf("verify with wrong mer_id want ErrNotYourMerchant got %v", err)
	}

	if err := env.dispatch.Verify(roleMap, order.ID, 1); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	got, err := env.orderRepo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusVerified {
		t.Fatalf("status want %d got %d", constants.OrderStatusVerified, got.Status)
	}
	reloaded, err := env.staffRepo.GetByID(staff.ID)
	if err != nil {
		t.Fatalf("reload staff failed: %v", err)
	}
	if reloaded.ServedCount != 1 {
		t.Fatalf("served_count want 1 got %d", reloaded.ServedCount)
	}

	// 已核销订单不可重复核销
	err = env.dispatch.Verify(roleMap, order.ID, 1)
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("second verify want ErrOperationFailed got %v", err)
	}
}

func TestReservationLifecycle(t *testing.T) {
	env := setupDispatchTest(t, "dispatch_lifecycle")
	ctx := context.Background()
	env.setFlags(t, 1, MerchantFlags{DeliveryOrderStatus: true, EnableCheckin: true, EnableTrace: true})

	staff := &models.Staff{MerID: 1, UID: 10, Name: "赵核销", Status: constants.RosterStatusEnabled}
	if err := env.staffRepo.Create(staff); err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	order := env.createOrder(t, 1, constants.OrderTypeReservation, constants.OrderStatusUnassigned, 0)
	roleMap := staffRoleMap(1, staff.ID, 10)

	if err := env.dispatch.ReservationDispatch(roleMap, order.ID); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if err := env.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"status": constants.OrderStatusInService,
	}); err != nil {
		t.Fatalf("advance to in-service failed: %v", err)
	}
	if err := env.dispatch.CheckIn(ctx, roleMap, order.ID, `{"lat":31.2}`); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if err := env.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"status": constants.OrderStatusAwaitingVoucher,
	}); err != nil {
		t.Fatalf("advance to awaiting-voucher failed: %v", err)
	}
	if err := env.dispatch.AddTrace(ctx, roleMap, order.ID, `{"photos":["a.jpg"]}`); err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	if err := env.dispatch.Verify(roleMap, order.ID, 1); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	got, err := env.orderRepo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusVerified {
		t.Fatalf("final status want %d got %d", constants.OrderStatusVerified, got.Status)
	}
	if got.StaffsID != staff.ID {
		t.Fatalf("owner want %d got %d", staff.ID, got.StaffsID)
	}
}
