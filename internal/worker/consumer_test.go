package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/provider"
	"github.com/merchant-next/internal/queue"
	"github.com/merchant-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T, name string) (*Consumer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.DeliveryOrder{}, &models.User{}); err != nil {
		t.Fatalf("migrate worker tables failed: %v", err)
	}
	consumer := NewConsumer(&provider.Container{
		OrderRepo: repository.NewOrderRepository(db),
		UserRepo:  repository.NewUserRepository(db),
	})
	return consumer, db
}

func dispatchTask(t *testing.T, taskType string, payload queue.DispatchEventPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(taskType, data)
}

func TestHandleDispatchEventInvalidPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "worker_bad_payload")
	task := asynq.NewTask(queue.TaskOrderClaimed, []byte("not json"))
	if err := consumer.handleDispatchEvent(context.Background(), task); err == nil {
		t.Fatalf("invalid payload want error")
	}
}

func TestHandleDispatchEventSkipsZeroOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "worker_zero_order")
	task := dispatchTask(t, queue.TaskOrderClaimed, queue.DispatchEventPayload{Event: constants.EventOrderClaimed})
	if err := consumer.handleDispatchEvent(context.Background(), task); err != nil {
		t.Fatalf("zero order id want nil got %v", err)
	}
}

func TestHandleDispatchEventSkipsMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "worker_missing_order")
	task := dispatchTask(t, queue.TaskOrderClaimed, queue.DispatchEventPayload{
		Event:   constants.EventOrderClaimed,
		OrderID: 999,
	})
	if err := consumer.handleDispatchEvent(context.Background(), task); err != nil {
		t.Fatalf("missing order want nil got %v", err)
	}
}

func TestHandleDispatchEventNotifies(t *testing.T) {
	consumer, db := setupConsumerTest(t, "worker_notify")
	user := &models.User{Phone: "13800000001", PasswordHash: "x", Status: 1}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := &models.Order{
		MerID:     1,
		UserID:    user.ID,
		Status:    constants.OrderStatusInService,
		Paid:      true,
		StoreName: "测试门店",
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task := dispatchTask(t, queue.TaskOrderDispatched, queue.DispatchEventPayload{
		Event:   constants.EventOrderDispatched,
		OrderID: order.ID,
		MerID:   order.MerID,
		ActorID: 10,
	})
	if err := consumer.handleDispatchEvent(context.Background(), task); err != nil {
		t.Fatalf("dispatch event want nil got %v", err)
	}
}

func TestRegisterToleratesNil(t *testing.T) {
	var consumer *Consumer
	consumer.Register(asynq.NewServeMux())
	NewConsumer(&provider.Container{}).Register(nil)
}
