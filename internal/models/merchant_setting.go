package models

import "time"

// MerchantSetting 商户配置表（每商户一行，配置项存 JSON）
type MerchantSetting struct {
	MerID     uint      `gorm:"primarykey" json:"mer_id"`        // 商户 ID
	ValueJSON JSON      `gorm:"type:text" json:"value"`          // 配置内容
	CreatedAt time.Time `json:"created_at"`                      // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                      // 更新时间
}

// TableName 指定表名
func (MerchantSetting) TableName() string {
	return "merchant_settings"
}
