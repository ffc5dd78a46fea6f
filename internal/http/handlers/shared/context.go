package shared

import (
	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyUserID 操作端账号 ID
	ContextKeyUserID = "user_id"
	// ContextKeyAdminID 管理员 ID
	ContextKeyAdminID = "admin_id"
	// ContextKeyAdminIsSuper 管理员是否超管
	ContextKeyAdminIsSuper = "admin_is_super"
	// ContextKeyRoleMap 请求级角色快照
	ContextKeyRoleMap = "role_map"
)

// GetContextUint 从上下文读取 uint 值并统一处理错误响应。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "error.internal", nil)
		return 0, false
	}
}

// GetRoleMap 从上下文读取角色快照。
func GetRoleMap(c *gin.Context) (*service.RoleMap, bool) {
	value, exists := c.Get(ContextKeyRoleMap)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	roleMap, ok := value.(*service.RoleMap)
	if !ok || roleMap == nil {
		RespondError(c, response.CodeInternal, "error.internal", nil)
		return nil, false
	}
	return roleMap, true
}
