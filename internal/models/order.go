package models

import "time"

// Order 订单表（预约单与配送单共用主表）
type Order struct {
	ID              uint      `gorm:"primarykey" json:"order_id"`                        // 主键（order_id）
	MerID           uint      `gorm:"index;not null" json:"mer_id"`                      // 所属商户
	OrderType       int       `gorm:"index;default:0" json:"order_type"`                 // 订单类型（0 = 预约单）
	Status          int       `gorm:"index;default:0" json:"status"`                     // 工作流状态
	Paid            bool      `gorm:"index;default:false" json:"paid"`                   // 是否已支付
	IsDel           bool      `gorm:"index;default:false" json:"is_del"`                 // 是否已删除
	StaffsID        uint      `gorm:"index;default:0" json:"staffs_id"`                  // 核销员归属（0 = 未接单）
	UserID          uint      `gorm:"index;default:0" json:"user_id"`                    // 下单用户
	StoreName       string    `gorm:"type:varchar(200);index" json:"store_name"`         // 冗余门店名（列表搜索用）
	UserName        string    `gorm:"type:varchar(100)" json:"user_name"`                // 冗余客户名
	UserPhone       string    `gorm:"type:varchar(30)" json:"user_phone"`                // 冗余客户手机号
	PayPrice        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"pay_price"` // 实付金额
	ReservationDate string    `gorm:"type:varchar(20);index" json:"reservation_date"`    // 预约日期（YYYY-MM-DD）
	ClockInInfo     string    `gorm:"type:text" json:"clock_in_info,omitempty"`          // 打卡信息（JSON 原文，schema 由客户端负责）
	ServiceVoucher  string    `gorm:"type:text" json:"reservation_service_voucher,omitempty"` // 服务凭证（JSON 原文）
	Remark          string    `gorm:"type:varchar(500)" json:"remark"`                   // 备注
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                        // 更新时间

	// 关联
	DeliveryOrder *DeliveryOrder `gorm:"foreignKey:OrderID" json:"delivery_order,omitempty"` // 配送单
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
