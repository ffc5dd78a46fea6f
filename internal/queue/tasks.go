package queue

import (
	"encoding/json"
	"fmt"

	"github.com/merchant-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderClaimed 配送接单通知任务
	TaskOrderClaimed = constants.TaskOrderClaimed
	// TaskOrderDispatched 核销员接单通知任务
	TaskOrderDispatched = constants.TaskOrderDispatched
	// TaskOrderConfirmed 送达确认通知任务
	TaskOrderConfirmed = constants.TaskOrderConfirmed
	// TaskOrderCheckedIn 上门打卡通知任务
	TaskOrderCheckedIn = constants.TaskOrderCheckedIn
	// TaskOrderVerified 核销完成通知任务
	TaskOrderVerified = constants.TaskOrderVerified
)

// DispatchEventPayload 派单事件任务载荷
type DispatchEventPayload struct {
	Event   string `json:"event"`
	OrderID uint   `json:"order_id"`
	MerID   uint   `json:"mer_id"`
	ActorID uint   `json:"actor_id"`
}

// taskTypeForEvent 事件名映射任务类型
func taskTypeForEvent(event string) (string, error) {
	switch event {
	case constants.EventOrderClaimed:
		return TaskOrderClaimed, nil
	case constants.EventOrderDispatched:
		return TaskOrderDispatched, nil
	case constants.EventOrderConfirmed:
		return TaskOrderConfirmed, nil
	case constants.EventOrderCheckedIn:
		return TaskOrderCheckedIn, nil
	case constants.EventOrderVerified:
		return TaskOrderVerified, nil
	default:
		return "", fmt.Errorf("queue: unknown dispatch event %q", event)
	}
}

// NewDispatchEventTask 创建派单事件任务
func NewDispatchEventTask(payload DispatchEventPayload) (*asynq.Task, error) {
	taskType, err := taskTypeForEvent(payload.Event)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}
