package public

import "github.com/merchant-next/internal/provider"

// Handler 公开接口处理器入口（登录、验证码、公开配置）
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
