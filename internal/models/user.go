package models

import "time"

// User 账号表（配送员 / 核销员 / 客服共用的登录主体）
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                   // 主键（即 uid）
	Phone        string     `gorm:"uniqueIndex;not null" json:"phone"`      // 登录手机号
	Name         string     `gorm:"type:varchar(100)" json:"name"`          // 姓名
	Avatar       string     `gorm:"type:varchar(500)" json:"avatar"`        // 头像
	PasswordHash string     `gorm:"type:varchar(200);not null" json:"-"`    // 密码哈希
	MainUID      uint       `gorm:"index;default:0" json:"main_uid"`        // 主账号 uid（0 = 本身是主账号）
	Status       int        `gorm:"index;default:1" json:"status"`          // 状态（1 启用）
	LastLoginAt  *time.Time `gorm:"index" json:"last_login_at,omitempty"`   // 最后登录时间
	CreatedAt    time.Time  `json:"created_at"`                             // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
