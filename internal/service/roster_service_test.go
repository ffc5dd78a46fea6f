package service

import (
	"fmt"
	"testing"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRosterTest(t *testing.T, name string) (*RosterService, *gorm.DB) {
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
	if err := db.AutoMigrate(&models.Merchant{}, &models.User{}, &models.Staff{}, &models.Service{}); err != nil {
		t.Fatalf("migrate roster tables failed: %v", err)
	}
	svc := NewRosterService(
		repository.NewStaffRepository(db),
		repository.NewServiceRepository(db),
		repository.NewUserRepository(db),
		repository.NewMerchantRepository(db),
	)
	return svc, db
}

func seedMerchantAndUser(t *testing.T, db *gorm.DB, merID, uid uint) {
	t.Helper()
	if err := db.Create(&models.Merchant{ID: merID, Name: "测试商户", Status: constants.MerchantStatusOpen}).Error; err != nil {
		t.Fatalf("create merchant failed: %v", err)
	}
	if err := db.Create(&models.User{ID: uid, Phone: fmt.Sprintf("139%07d", uid), PasswordHash: "x", Status: 1}).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func TestCreateStaffUniquePerMerchant(t *testing.T) {
	svc, db := setupRosterTest(t, "roster_staff_unique")
	seedMerchantAndUser(t, db, 1, 10)

	staff, err := svc.CreateStaff(CreateStaffInput{MerID: 1, UID: 10, Name: " 赵核销 ", Phone: "13800000001"})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	if staff.Name != "赵核销" {
		t.Fatalf("name not trimmed: %q", staff.Name)
	}
	if staff.Status != constants.RosterStatusEnabled {
		t.Fatalf("new staff want enabled got %d", staff.Status)
	}

	if _, err := svc.CreateStaff(CreateStaffInput{MerID: 1, UID: 10, Name: "赵核销"}); err != ErrStaffExists {
		t.Fatalf("duplicate staff want ErrStaffExists got %v", err)
	}
}

func TestCreateStaffValidatesMerchantAndUser(t *testing.T) {
	svc, db := setupRosterTest(t, "roster_staff_refs")
	seedMerchantAndUser(t, db, 1, 10)

	if _, err := svc.CreateStaff(CreateStaffInput{MerID: 99, UID: 10, Name: "赵核销"}); err != ErrMerchantNotFound {
		t.Fatalf("missing merchant want ErrMerchantNotFound got %v", err)
	}
	if _, err := svc.CreateStaff(CreateStaffInput{MerID: 1, UID: 99, Name: "赵核销"}); err != ErrUserNotFound {
		t.Fatalf("missing user want ErrUserNotFound got %v", err)
	}
}

func TestStaffTrashLifecycle(t *testing.T) {
	svc, db := setupRosterTest(t, "roster_staff_trash")
	seedMerchantAndUser(t, db, 1, 10)
	staff, err := svc.CreateStaff(CreateStaffInput{MerID: 1, UID: 10, Name: "赵核销"})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}

	// 未删除不可恢复
	if err := svc.RestoreStaff(1, staff.ID); err != ErrStaffNotTrashed {
		t.Fatalf("restore active staff want ErrStaffNotTrashed got %v", err)
	}

	if err := svc.DeleteStaff(1, staff.ID); err != nil {
		t.Fatalf("delete staff failed: %v", err)
	}

	// 删除后同账号可重新建档
	again, err := svc.CreateStaff(CreateStaffInput{MerID: 1, UID: 10, Name: "赵核销"})
	if err != nil {
		t.Fatalf("recreate after delete failed: %v", err)
	}

	// 新行在职时旧行不可恢复
	if err := svc.RestoreStaff(1, staff.ID); err != ErrStaffExists {
		t.Fatalf("restore with active duplicate want ErrStaffExists got %v", err)
	}

	if err := svc.DeleteStaff(1, again.ID); err != nil {
		t.Fatalf("delete staff failed: %v", err)
	}
	if err := svc.RestoreStaff(1, staff.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
}

func TestStaffOperationsScopedToMerchant(t *testing.T) {
	svc, db := setupRosterTest(t, "roster_staff_scope")
	seedMerchantAndUser(t, db, 1, 10)
	staff, err := svc.CreateStaff(CreateStaffInput{MerID: 1, UID: 10, Name: "赵核销"})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}

	if err := svc.UpdateStaffStatus(2, staff.ID, constants.RosterStatusDisabled); err != ErrStaffNotFound {
		t.Fatalf("cross-merchant status update want ErrStaffNotFound got %v", err)
	}
	if err := svc.DeleteStaff(2, staff.ID); err != ErrStaffNotFound {
		t.Fatalf("cross-merchant delete want ErrStaffNotFound got %v", err)
	}
	if err := svc.UpdateStaffStatus(1, staff.ID, constants.RosterStatusDisabled); err != nil {
		t.Fatalf("status update failed: %v", err)
	}
}

func TestUpdateStaffStatusNormalizesValue(t *testing.T) {
	svc, db := setupRosterTest(t, "roster_staff_status")
	seedMerchantAndUser(t, db, 1, 10)
	staff, err := svc.CreateStaff(CreateStaffInput{MerID: 1, UID: 10, Name: "赵核销"})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}

	// 非法状态值一律按停用处理
	if err := svc.UpdateStaffStatus(1, staff.ID, 7); err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	var got models.Staff
	if err := db.First(&got, staff.ID).Error; err != nil {
		t.Fatalf("reload staff failed: %v", err)
	}
	if got.Status != constants.RosterStatusDisabled {
		t.Fatalf("status want %d got %d", constants.RosterStatusDisabled, got.Status)
	}
}

func TestCreateServiceUniquePerMerchant(t *testing.T) {
	svc, db := setupRosterTest(t, "roster_service_unique")
	seedMerchantAndUser(t, db, 1, 10)

	service, err := svc.CreateService(CreateServiceInput{
		MerID: 1, UID: 10, Name: "钱配送", Customer: true, Delivery: true,
	})
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	if !service.Customer || !service.Delivery {
		t.Fatalf("identity flags not persisted: customer=%v delivery=%v", service.Customer, service.Delivery)
	}

	if _, err := svc.CreateService(CreateServiceInput{MerID: 1, UID: 10, Name: "钱配送"}); err != ErrServiceExists {
		t.Fatalf("duplicate service want ErrServiceExists got %v", err)
	}
}

func TestUpdateServiceFlagsFiltersKeys(t *testing.T) {
	svc, db := setupRosterTest(t, "roster_service_flags")
	seedMerchantAndUser(t, db, 1, 10)
	service, err := svc.CreateService(CreateServiceInput{MerID: 1, UID: 10, Name: "钱配送", Customer: true})
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	if err := svc.UpdateServiceFlags(2, service.ID, map[string]interface{}{"delivery": true}); err != ErrServiceNotFound {
		t.Fatalf("cross-merchant update want ErrServiceNotFound got %v", err)
	}

	err = svc.UpdateServiceFlags(1, service.ID, map[string]interface{}{
		"delivery": true,
		"status":   constants.RosterStatusDisabled,
		"mer_id":   99,
		"uid":      99,
	})
	if err != nil {
		t.Fatalf("update flags failed: %v", err)
	}

	var got models.Service
	if err := db.First(&got, service.ID).Error; err != nil {
		t.Fatalf("reload service failed: %v", err)
	}
	if !got.Delivery || got.Status != constants.RosterStatusDisabled {
		t.Fatalf("allowed keys not applied: delivery=%v status=%d", got.Delivery, got.Status)
	}
	if got.MerID != 1 || got.UID != 10 {
		t.Fatalf("protected columns changed: mer_id=%d uid=%d", got.MerID, got.UID)
	}
}
