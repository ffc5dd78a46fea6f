package service

import (
	"strings"
	"sync"
	"time"

	"github.com/merchant-next/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 登录图片验证码服务
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu    sync.Mutex
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 登录场景是否要求验证码
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	img := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		img.Height,
		img.Width,
		img.NoiseCount,
		img.ShowLine,
		img.Length,
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 校验登录验证码，未启用时直接放行
func (s *CaptchaService) Verify(captchaID, captchaCode string) error {
	if !s.Enabled() {
		return nil
	}
	id := strings.TrimSpace(captchaID)
	code := strings.TrimSpace(captchaCode)
	if id == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.ensureStore().Verify(id, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		maxStore := s.cfg.Image.MaxStore
		if maxStore <= 0 {
			maxStore = base64Captcha.GCLimitNumber
		}
		expire := time.Duration(s.cfg.Image.ExpireSeconds) * time.Second
		if expire <= 0 {
			expire = base64Captcha.Expiration
		}
		s.store = base64Captcha.NewMemoryStore(maxStore, expire)
	}
	return s.store
}
