package service

import (
	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/repository"
)

// OrderCompleter 核销完成协作方：verify 授权通过后把最终状态变更交给它
type OrderCompleter interface {
	Complete(orderID uint, staffsID uint) error
}

// DefaultOrderCompleter 默认实现：待凭证 -> 已核销，并累加核销员计数
type DefaultOrderCompleter struct {
	orderRepo repository.OrderRepository
	staffRepo repository.StaffRepository
}

// NewOrderCompleter 创建默认核销完成器
func NewOrderCompleter(orderRepo repository.OrderRepository, staffRepo repository.StaffRepository) *DefaultOrderCompleter {
	return &DefaultOrderCompleter{
		orderRepo: orderRepo,
		staffRepo: staffRepo,
	}
}

// Complete 执行核销落库，条件更新失败视为前置条件不再满足
func (c *DefaultOrderCompleter) Complete(orderID uint, staffsID uint) error {
	ok, err := c.orderRepo.MarkVerified(orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOperationFailed
	}
	if staffsID != 0 {
		if err := c.staffRepo.IncrementServed(staffsID); err != nil {
			// 计数失败不回滚核销结果
			logger.Warnw("order_complete_increment_served_failed",
				"order_id", orderID, "staffs_id", staffsID, "error", err)
		}
	}
	return nil
}
