package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff 预约核销员花名册表（支持软删除与恢复）
type Staff struct {
	ID          uint           `gorm:"primarykey" json:"staffs_id"`     // 主键（staffs_id）
	MerID       uint           `gorm:"index;not null" json:"mer_id"`    // 所属商户
	UID         uint           `gorm:"index;not null" json:"uid"`       // 绑定账号
	Photo       string         `gorm:"type:varchar(500)" json:"photo"`  // 照片
	Name        string         `gorm:"type:varchar(100)" json:"name"`   // 姓名
	Phone       string         `gorm:"type:varchar(30)" json:"phone"`   // 手机号
	Status      int            `gorm:"index;default:1" json:"status"`   // 状态（1 启用）
	ServedCount int            `gorm:"default:0" json:"served_count"`   // 累计核销单数
	CreatedAt   time.Time      `json:"created_at"`                      // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                      // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                  // 软删除时间（delete_time）
}

// TableName 指定表名
func (Staff) TableName() string {
	return "staffs"
}

// IsTrashed 判断是否处于回收站状态
func (s *Staff) IsTrashed() bool {
	return s != nil && s.DeletedAt.Valid
}
