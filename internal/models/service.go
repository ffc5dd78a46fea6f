package models

import "time"

// Service 客服/配送花名册表
// 同一行可同时承担客服（customer）与配送（delivery）两种身份，
// 配送员的 service_id 即本表主键。
type Service struct {
	ID        uint      `gorm:"primarykey" json:"service_id"`     // 主键（service_id）
	MerID     uint      `gorm:"index;not null" json:"mer_id"`     // 所属商户
	UID       uint      `gorm:"index;not null" json:"uid"`        // 绑定账号
	Avatar    string    `gorm:"type:varchar(500)" json:"avatar"`  // 头像
	Name      string    `gorm:"type:varchar(100)" json:"name"`    // 姓名
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`    // 手机号
	Status    int       `gorm:"index;default:1" json:"status"`    // 状态（1 启用）
	Customer  bool      `gorm:"default:true" json:"customer"`     // 是否承接客服会话
	Delivery  bool      `gorm:"default:false" json:"delivery"`    // 是否承接配送接单
	CreatedAt time.Time `json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (Service) TableName() string {
	return "services"
}
