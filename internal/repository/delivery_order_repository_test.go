package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDeliveryOrderRepositoryTest(t *testing.T, name string) (*GormDeliveryOrderRepository, *gorm.DB) {
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
	if err := db.AutoMigrate(&models.DeliveryOrder{}); err != nil {
		t.Fatalf("migrate delivery_orders failed: %v", err)
	}
	return NewDeliveryOrderRepository(db), db
}

func createDeliveryOrder(t *testing.T, repo *GormDeliveryOrderRepository, orderID, merID uint, carrierType int) *models.DeliveryOrder {
	t.Helper()
	order := &models.DeliveryOrder{
		OrderID:     orderID,
		MerID:       merID,
		Status:      constants.DeliveryStatusUnclaimed,
		CarrierType: carrierType,
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create delivery order failed: %v", err)
	}
	return order
}

func TestDeliveryClaimAtMostOnce(t *testing.T) {
	repo, _ := setupDeliveryOrderRepositoryTest(t, "delivery_claim_once")
	createDeliveryOrder(t, repo, 100, 1, constants.DeliveryCarrierSelf)

	ok, err := repo.Claim(100, 7)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if !ok {
		t.Fatalf("first claim want success")
	}

	ok, err = repo.Claim(100, 8)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if ok {
		t.Fatalf("second claim must not succeed")
	}

	got, err := repo.GetByOrderID(100)
	if err != nil {
		t.Fatalf("reload delivery order failed: %v", err)
	}
	if got.ServiceID != 7 {
		t.Fatalf("owner want 7 got %d", got.ServiceID)
	}
	if got.Status != constants.DeliveryStatusClaimed {
		t.Fatalf("status want %d got %d", constants.DeliveryStatusClaimed, got.Status)
	}
	if got.ClaimedAt == nil {
		t.Fatalf("claimed_at not recorded")
	}
}

func TestDeliveryClaimConcurrent(t *testing.T) {
	repo, _ := setupDeliveryOrderRepositoryTest(t, "delivery_claim_race")
	createDeliveryOrder(t, repo, 100, 1, constants.DeliveryCarrierSelf)

	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan uint, workers)
	for i := 0; i < workers; i++ {
		serviceID := uint(200 + i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Claim(100, serviceID)
			if err != nil {
				t.Errorf("claim failed: %v", err)
				return
			}
			if ok {
				wins <- serviceID
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := make([]uint, 0, 1)
	for serviceID := range wins {
		winners = append(winners, serviceID)
	}
	if len(winners) != 1 {
		t.Fatalf("want exactly one winner, got %d", len(winners))
	}

	got, err := repo.GetByOrderID(100)
	if err != nil {
		t.Fatalf("reload delivery order failed: %v", err)
	}
	if got.ServiceID != winners[0] {
		t.Fatalf("owner want %d got %d", winners[0], got.ServiceID)
	}
}

func TestDeliveryClaimSkipsExternalCarrier(t *testing.T) {
	repo, _ := setupDeliveryOrderRepositoryTest(t, "delivery_claim_external")
	createDeliveryOrder(t, repo, 100, 1, constants.DeliveryCarrierExternal)

	ok, err := repo.Claim(100, 7)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if ok {
		t.Fatalf("external carrier order must not be claimable")
	}
}

func TestDeliveryConfirmRequiresClaimedAndMerchant(t *testing.T) {
	repo, _ := setupDeliveryOrderRepositoryTest(t, "delivery_confirm")
	createDeliveryOrder(t, repo, 100, 1, constants.DeliveryCarrierSelf)

	// 未接单不可确认
	ok, err := repo.Confirm(100, 1)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if ok {
		t.Fatalf("unclaimed order must not be confirmable")
	}

	if _, err := repo.Claim(100, 7); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// 商户不匹配
	ok, err = repo.Confirm(100, 2)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if ok {
		t.Fatalf("wrong merchant must not confirm")
	}

	ok, err = repo.Confirm(100, 1)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if !ok {
		t.Fatalf("confirm want success")
	}

	// 已确认不可重复确认
	ok, err = repo.Confirm(100, 1)
	if err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if ok {
		t.Fatalf("confirmed order must not be confirmed twice")
	}

	got, err := repo.GetByOrderID(100)
	if err != nil {
		t.Fatalf("reload delivery order failed: %v", err)
	}
	if got.Status != constants.DeliveryStatusConfirmed {
		t.Fatalf("status want %d got %d", constants.DeliveryStatusConfirmed, got.Status)
	}
	if got.ConfirmedAt == nil {
		t.Fatalf("confirmed_at not recorded")
	}
}

func TestDeliveryGetByOrderIDMissing(t *testing.T) {
	repo, _ := setupDeliveryOrderRepositoryTest(t, "delivery_missing")

	got, err := repo.GetByOrderID(999)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("missing delivery order want nil, got %+v", got)
	}
}

func TestDeliveryUpdateRemark(t *testing.T) {
	repo, _ := setupDeliveryOrderRepositoryTest(t, "delivery_remark")
	createDeliveryOrder(t, repo, 100, 1, constants.DeliveryCarrierSelf)

	if err := repo.UpdateRemark(100, "放在前台"); err != nil {
		t.Fatalf("update remark failed: %v", err)
	}
	got, err := repo.GetByOrderID(100)
	if err != nil {
		t.Fatalf("reload delivery order failed: %v", err)
	}
	if got.Remark != "放在前台" {
		t.Fatalf("remark not persisted: %q", got.Remark)
	}
}
