package public

import (
	"errors"

	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ActorLoginRequest 操作端登录请求
type ActorLoginRequest struct {
	Phone       string `json:"phone" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ActorLogin 操作端账号登录
func (h *Handler) ActorLogin(c *gin.Context) {
	var req ActorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
			switch {
			case errors.Is(err, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			case errors.Is(err, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.captcha_unavailable", err)
			}
			return
		}
	}

	user, token, expiresAt, err := h.AuthService.ActorLogin(req.Phone, req.Password)
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

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Unix(),
		"user": gin.H{
			"id":     user.ID,
			"phone":  user.Phone,
			"name":   user.Name,
			"avatar": user.Avatar,
		},
	})
}
