package service

import (
	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"
)

// 两级授权检查：先看商户归属（租户级），再看订单归属（实例级）。
// 每次访问都要完整走一遍，包括详情这类幂等读取，避免跨商户信息泄露。

// AuthorizeStaffOrder 核销员视角的订单授权
func AuthorizeStaffOrder(roleMap *RoleMap, order *models.Order, action string) error {
	if !orderOperable(order) {
		return ErrOrderNotFound
	}
	if roleMap == nil {
		return ErrMissingRole
	}
	staff, ok := roleMap.Staff[order.MerID]
	if !ok {
		return ErrNotYourMerchant
	}
	if requiresOwnership(action, order.StaffsID) {
		if order.StaffsID != staff.ID {
			return ErrNotYourOrder
		}
	}
	return nil
}

// AuthorizeDeliveryOrder 配送员视角的订单授权
func AuthorizeDeliveryOrder(roleMap *RoleMap, order *models.Order, delivery *models.DeliveryOrder, action string) error {
	if !orderOperable(order) {
		return ErrOrderNotFound
	}
	if roleMap == nil {
		return ErrMissingRole
	}
	courier, ok := roleMap.Couriers[order.MerID]
	if !ok {
		return ErrNotYourMerchant
	}
	var ownerID uint
	if delivery != nil {
		ownerID = delivery.ServiceID
	}
	if requiresOwnership(action, ownerID) {
		if delivery == nil || delivery.ServiceID != courier.ID {
			return ErrNotYourOrder
		}
	}
	return nil
}

// orderOperable 订单存在性前置：软删除与未支付一律当作不存在
func orderOperable(order *models.Order) bool {
	return order != nil && !order.IsDel && order.Paid
}

// requiresOwnership 动作是否需要实例级归属。
// receive/dispatch 只要求租户级（订单尚无归属）；confirm/verify 沿用
// 原有口径，任何本商户角色持有者均可执行。详情读取在订单已被认领后
// 也要求归属，未认领的公共池订单对本商户角色可见。
func requiresOwnership(action string, ownerID uint) bool {
	switch action {
	case constants.ActionMark, constants.ActionCheckIn, constants.ActionAddTrace:
		return true
	case constants.ActionView:
		return ownerID != 0
	default:
		return false
	}
}
