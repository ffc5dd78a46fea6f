package models

import "time"

// Merchant 商户表（租户边界）
type Merchant struct {
	ID        uint      `gorm:"primarykey" json:"id"`                 // 商户 ID
	Name      string    `gorm:"type:varchar(200);not null" json:"name"` // 商户名称
	Status    int       `gorm:"index;default:1" json:"status"`        // 状态（1 营业）
	CreatedAt time.Time `json:"created_at"`                           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                           // 更新时间
}

// TableName 指定表名
func (Merchant) TableName() string {
	return "merchants"
}
