package admin

import (
	"errors"

	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
func (h *Handler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.AdminLogin(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeForbidden, "error.user_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.login_failed", err)
		}
		return
	}

	roles := []string{}
	if h.AuthzService != nil {
		if got, err := h.AuthzService.GetAdminRoles(admin.ID); err == nil {
			roles = got
		}
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Unix(),
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
			"roles":    roles,
		},
	})
}
