package public

import (
	"github.com/merchant-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CaptchaImage 生成登录图片验证码
func (h *Handler) CaptchaImage(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_unavailable", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// PublicConfig 公开站点配置
func (h *Handler) PublicConfig(c *gin.Context) {
	captchaEnabled := h.CaptchaService != nil && h.CaptchaService.Enabled()
	response.Success(c, gin.H{
		"captcha_enabled": captchaEnabled,
		"server_mode":     h.Config.Server.Mode,
	})
}
