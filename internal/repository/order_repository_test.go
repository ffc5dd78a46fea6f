package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T, name string) (*GormOrderRepository, *gorm.DB) {
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
	if err := db.AutoMigrate(&models.Order{}, &models.DeliveryOrder{}); err != nil {
		t.Fatalf("migrate order tables failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createReservationOrder(t *testing.T, repo *GormOrderRepository, merID uint, status int, staffsID uint) *models.Order {
	t.Helper()
	order := &models.Order{
		MerID:           merID,
		OrderType:       constants.OrderTypeReservation,
		Status:          status,
		Paid:            true,
		StaffsID:        staffsID,
		StoreName:       "测试门店",
		PayPrice:        models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		ReservationDate: "2026-09-01",
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderListEmptyMerIDsReturnsNothing(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_empty_mer")
	createReservationOrder(t, repo, 1, constants.OrderStatusUnassigned, 0)

	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 0 || total != 0 {
		t.Fatalf("empty mer_ids want empty result, got %d rows total %d", len(orders), total)
	}
}

func TestOrderListScopedToMerchants(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_scope_mer")
	createReservationOrder(t, repo, 1, constants.OrderStatusUnassigned, 0)
	createReservationOrder(t, repo, 1, constants.OrderStatusUnassigned, 0)
	createReservationOrder(t, repo, 2, constants.OrderStatusUnassigned, 0)

	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, MerIDs: []uint{1}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total want 2 got %d", total)
	}
	for _, order := range orders {
		if order.MerID != 1 {
			t.Fatalf("leaked order of mer %d", order.MerID)
		}
	}
}

func TestOrderListUnassignedFilter(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_unassigned")
	createReservationOrder(t, repo, 1, constants.OrderStatusUnassigned, 0)
	createReservationOrder(t, repo, 1, constants.OrderStatusInService, 55)

	orders, total, err := repo.List(OrderListFilter{
		Page: 1, PageSize: 10, MerIDs: []uint{1}, OnlyUnassigned: true,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("want 1 unassigned order, got %d (total %d)", len(orders), total)
	}
	if orders[0].StaffsID != 0 {
		t.Fatalf("unassigned order has staffs_id %d", orders[0].StaffsID)
	}
}

func TestOrderListByStaffsIDs(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_by_staffs")
	createReservationOrder(t, repo, 1, constants.OrderStatusInService, 55)
	createReservationOrder(t, repo, 2, constants.OrderStatusInService, 66)
	createReservationOrder(t, repo, 1, constants.OrderStatusInService, 77)

	orders, total, err := repo.List(OrderListFilter{
		Page: 1, PageSize: 10, MerIDs: []uint{1, 2}, StaffsIDs: []uint{55, 66},
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total want 2 got %d", total)
	}
	for _, order := range orders {
		if order.StaffsID != 55 && order.StaffsID != 66 {
			t.Fatalf("unexpected staffs_id %d", order.StaffsID)
		}
	}
}

func TestOrderListIdempotentRead(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_idempotent")
	createReservationOrder(t, repo, 1, constants.OrderStatusUnassigned, 0)
	createReservationOrder(t, repo, 1, constants.OrderStatusUnassigned, 0)

	filter := OrderListFilter{Page: 1, PageSize: 10, MerIDs: []uint{1}}
	first, firstTotal, err := repo.List(filter)
	if err != nil {
		t.Fatalf("first list failed: %v", err)
	}
	second, secondTotal, err := repo.List(filter)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if firstTotal != secondTotal || len(first) != len(second) {
		t.Fatalf("repeated read diverged: %d/%d vs %d/%d", len(first), firstTotal, len(second), secondTotal)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("row order diverged at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestDispatchToStaffAtMostOnce(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_dispatch_once")
	order := createReservationOrder(t, repo, 7, constants.OrderStatusUnassigned, 0)

	ok, err := repo.DispatchToStaff(order.ID, 55)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !ok {
		t.Fatalf("first dispatch want success")
	}

	ok, err = repo.DispatchToStaff(order.ID, 66)
	if err != nil {
		t.Fatalf("second dispatch failed: %v", err)
	}
	if ok {
		t.Fatalf("second dispatch must not succeed")
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.StaffsID != 55 {
		t.Fatalf("owner want 55 got %d", got.StaffsID)
	}
}

func TestDispatchToStaffConcurrent(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_dispatch_race")
	order := createReservationOrder(t, repo, 7, constants.OrderStatusUnassigned, 0)

	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan uint, workers)
	for i := 0; i < workers; i++ {
		staffsID := uint(100 + i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.DispatchToStaff(order.ID, staffsID)
			if err != nil {
				t.Errorf("dispatch failed: %v", err)
				return
			}
			if ok {
				wins <- staffsID
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := make([]uint, 0, 1)
	for staffsID := range wins {
		winners = append(winners, staffsID)
	}
	if len(winners) != 1 {
		t.Fatalf("want exactly one winner, got %d", len(winners))
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.StaffsID != winners[0] {
		t.Fatalf("owner want %d got %d", winners[0], got.StaffsID)
	}
}

func TestDispatchToStaffRejectsUnpaidAndDeleted(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t, "order_dispatch_guard")
	order := createReservationOrder(t, repo, 7, constants.OrderStatusUnassigned, 0)

	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("paid", false).Error; err != nil {
		t.Fatalf("mark unpaid failed: %v", err)
	}
	ok, err := repo.DispatchToStaff(order.ID, 55)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if ok {
		t.Fatalf("unpaid order must not be dispatchable")
	}

	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{"paid": true, "is_del": true}).Error; err != nil {
		t.Fatalf("mark deleted failed: %v", err)
	}
	ok, err = repo.DispatchToStaff(order.ID, 55)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if ok {
		t.Fatalf("deleted order must not be dispatchable")
	}
}

func TestSaveCheckInRequiresInService(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_checkin_guard")
	unassigned := createReservationOrder(t, repo, 7, constants.OrderStatusUnassigned, 0)
	inService := createReservationOrder(t, repo, 7, constants.OrderStatusInService, 55)

	ok, err := repo.SaveCheckIn(unassigned.ID, `{"lat":1}`)
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if ok {
		t.Fatalf("checkin on unassigned order must not succeed")
	}

	ok, err = repo.SaveCheckIn(inService.ID, `{"lat":1}`)
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if !ok {
		t.Fatalf("checkin on in-service order want success")
	}

	got, err := repo.GetByID(inService.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.ClockInInfo != `{"lat":1}` {
		t.Fatalf("clock_in_info not persisted: %q", got.ClockInInfo)
	}
	if got.Status != constants.OrderStatusInService {
		t.Fatalf("checkin must not change status, got %d", got.Status)
	}
}

func TestSaveVoucherAndMarkVerified(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t, "order_voucher_verify")
	order := createReservationOrder(t, repo, 7, constants.OrderStatusAwaitingVoucher, 55)

	ok, err := repo.SaveVoucher(order.ID, `{"photos":["a.jpg"]}`)
	if err != nil {
		t.Fatalf("save voucher failed: %v", err)
	}
	if !ok {
		t.Fatalf("save voucher want success")
	}

	ok, err = repo.MarkVerified(order.ID)
	if err != nil {
		t.Fatalf("mark verified failed: %v", err)
	}
	if !ok {
		t.Fatalf("mark verified want success")
	}

	// 已核销订单不可重复核销
	ok, err = repo.MarkVerified(order.ID)
	if err != nil {
		t.Fatalf("second mark verified failed: %v", err)
	}
	if ok {
		t.Fatalf("verified order must not be verified twice")
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusVerified {
		t.Fatalf("status want %d got %d", constants.OrderStatusVerified, got.Status)
	}
}

func TestOrderListDeliveryJoin(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t, "order_delivery_join")
	withDelivery := createReservationOrder(t, repo, 1, constants.OrderStatusDeliveryConfirm, 0)
	createReservationOrder(t, repo, 1, constants.OrderStatusUnassigned, 0)
	if err := db.Create(&models.DeliveryOrder{
		OrderID: withDelivery.ID, MerID: 1,
		Status: constants.DeliveryStatusUnclaimed, CarrierType: constants.DeliveryCarrierSelf,
	}).Error; err != nil {
		t.Fatalf("create delivery order failed: %v", err)
	}

	orders, total, err := repo.List(OrderListFilter{
		Page: 1, PageSize: 10, MerIDs: []uint{1}, HasDelivery: true, WithDelivery: true,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("want only delivery-backed order, got %d (total %d)", len(orders), total)
	}
	if orders[0].DeliveryOrder == nil {
		t.Fatalf("delivery order not preloaded")
	}
}
