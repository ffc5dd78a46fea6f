package models

import "time"

// DeliveryOrder 配送单表（与订单 1:1，接单归属落在 service_id）
type DeliveryOrder struct {
	ID          uint      `gorm:"primarykey" json:"id"`                   // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`         // 关联订单
	MerID       uint      `gorm:"index;not null" json:"mer_id"`           // 所属商户
	ServiceID   uint      `gorm:"index;default:0" json:"service_id"`      // 接单配送员（0 = 未接单）
	Status      int       `gorm:"index;default:0" json:"status"`          // 配送状态
	CarrierType int       `gorm:"index;default:0" json:"carrier_type"`    // 承运类型（1 = 第三方承运）
	Remark      string    `gorm:"type:varchar(500)" json:"remark"`        // 配送备注
	ClaimedAt   *time.Time `gorm:"index" json:"claimed_at,omitempty"`     // 接单时间
	ConfirmedAt *time.Time `gorm:"index" json:"confirmed_at,omitempty"`   // 确认送达时间
	CreatedAt   time.Time `json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (DeliveryOrder) TableName() string {
	return "delivery_orders"
}
