package models

import "time"

// Admin 平台管理员表
type Admin struct {
	ID           uint       `gorm:"primarykey" json:"id"`                            // 主键
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"` // 登录名
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`             // bcrypt 密码哈希
	IsSuper      bool       `gorm:"default:false" json:"is_super"`                   // 是否超级管理员
	Status       int        `gorm:"index;default:1" json:"status"`                   // 状态（1 启用）
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`                         // 最后登录时间
	CreatedAt    time.Time  `json:"created_at"`                                      // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
