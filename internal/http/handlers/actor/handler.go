package actor

import "github.com/merchant-next/internal/provider"

// Handler 操作端接口处理器入口（核销员与配送员）
type Handler struct {
	*provider.Container
}

// New 创建操作端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
