package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/provider"
	"github.com/merchant-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderClaimed, c.handleDispatchEvent)
	mux.HandleFunc(queue.TaskOrderDispatched, c.handleDispatchEvent)
	mux.HandleFunc(queue.TaskOrderConfirmed, c.handleDispatchEvent)
	mux.HandleFunc(queue.TaskOrderCheckedIn, c.handleDispatchEvent)
	mux.HandleFunc(queue.TaskOrderVerified, c.handleDispatchEvent)
}

// handleDispatchEvent 派单事件统一处理：解析载荷，补齐订单上下文后投递推送。
// 推送通道本身是外部协作方，这里输出结构化记录供通道侧消费。
func (c *Consumer) handleDispatchEvent(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_dispatch_event_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DispatchEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_dispatch_event_unmarshal_failed", "task_type", task.Type(), "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_dispatch_event_skip_invalid_payload", "task_type", task.Type())
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_dispatch_event_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_dispatch_event_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	var receiverPhone string
	if order.UserID != 0 {
		user, err := c.UserRepo.GetByID(order.UserID)
		if err != nil {
			logger.Warnw("worker_dispatch_event_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
			return err
		}
		if user != nil {
			receiverPhone = strings.TrimSpace(user.Phone)
		}
	}
	if receiverPhone == "" {
		receiverPhone = strings.TrimSpace(order.UserPhone)
	}
	if receiverPhone == "" {
		logger.Debugw("worker_dispatch_event_skip_empty_receiver", "order_id", order.ID, "event", payload.Event)
		return nil
	}

	logger.Infow("worker_dispatch_event_notified",
		"event", payload.Event,
		"order_id", order.ID,
		"mer_id", order.MerID,
		"actor_id", payload.ActorID,
		"receiver_phone", receiverPhone,
		"store_name", order.StoreName,
	)
	return nil
}
