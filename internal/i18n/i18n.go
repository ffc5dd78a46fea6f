package i18n

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// LocaleZhCN 简体中文
	LocaleZhCN = "zh-CN"
	// LocaleEnUS 英文
	LocaleEnUS = "en-US"

	defaultLocale = LocaleZhCN
	localeHeader  = "X-Locale"
)

// messages 按语言组织的消息表
var messages = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":           "请求参数错误",
		"error.unauthorized":          "未登录或登录已过期",
		"error.forbidden":             "没有操作权限",
		"error.not_found":             "资源不存在",
		"error.internal":              "服务器内部错误",
		"error.auth_header_missing":   "缺少认证信息",
		"error.auth_header_invalid":   "认证信息格式错误",
		"error.token_invalid":         "无效的 token",
		"error.jwt_secret_missing":    "JWT 密钥未配置",
		"error.login_too_many":        "登录尝试过于频繁，请稍后再试",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.invalid_credentials":   "账号或密码错误",
		"error.user_disabled":         "账号已被禁用",
		"error.captcha_required":      "请输入验证码",
		"error.captcha_invalid":       "验证码错误",
		"error.missing_role":          "当前账号没有所需角色",
		"error.order_not_found":       "订单不存在或不可操作",
		"error.not_your_merchant":     "无权访问该商户的订单",
		"error.not_your_order":        "该订单不归属当前账号",
		"error.already_claimed":       "订单已被其他配送员接单",
		"error.already_dispatched":    "订单已被其他核销员接单",
		"error.confirm_failed":        "确认送达失败",
		"error.operation_failed":      "操作失败，请刷新后重试",
		"error.payload_not_json":      "提交内容必须是合法的 JSON",
		"error.staff_exists":          "该用户已是此商户的在职员工",
		"error.service_exists":        "该用户已是此商户的客服/配送员",
		"error.self_delivery_disabled": "该商户未开启自配送接单",
		"error.checkin_disabled":      "该商户未开启上门打卡",
		"error.trace_disabled":        "该商户未开启服务凭证",
		"error.staff_not_found":       "员工不存在",
		"error.staff_not_trashed":     "员工未被删除，无需恢复",
		"error.service_not_found":     "客服/配送员不存在",
		"error.merchant_not_found":    "商户不存在",
		"error.user_not_found":        "用户不存在",
		"error.mark_failed":           "备注保存失败",
		"error.list_failed":           "列表查询失败",
		"error.detail_failed":         "详情查询失败",
		"error.config_fetch_failed":   "配置读取失败",
		"error.config_update_failed":  "配置保存失败",
		"error.roster_create_failed":  "人员创建失败",
		"error.roster_update_failed":  "人员更新失败",
		"error.login_failed":          "登录失败",
		"error.captcha_unavailable":   "验证码服务不可用",
	},
	LocaleEnUS: {
		"error.bad_request":           "invalid request parameters",
		"error.unauthorized":          "unauthorized or session expired",
		"error.forbidden":             "permission denied",
		"error.not_found":             "resource not found",
		"error.internal":              "internal server error",
		"error.auth_header_missing":   "missing authorization header",
		"error.auth_header_invalid":   "malformed authorization header",
		"error.token_invalid":         "invalid token",
		"error.jwt_secret_missing":    "jwt secret is not configured",
		"error.login_too_many":        "too many login attempts, try again later",
		"error.rate_limit_unavailable": "rate limiter unavailable",
		"error.invalid_credentials":   "invalid account or password",
		"error.user_disabled":         "account disabled",
		"error.captcha_required":      "captcha required",
		"error.captcha_invalid":       "captcha mismatch",
		"error.missing_role":          "account lacks the required role",
		"error.order_not_found":       "order not found or not operable",
		"error.not_your_merchant":     "order belongs to another merchant",
		"error.not_your_order":        "order is owned by another account",
		"error.already_claimed":       "order already claimed by another courier",
		"error.already_dispatched":    "order already taken by another staff",
		"error.confirm_failed":        "delivery confirm failed",
		"error.operation_failed":      "operation failed, refresh and retry",
		"error.payload_not_json":      "payload must be valid JSON",
		"error.staff_exists":          "user is already an active staff of this merchant",
		"error.service_exists":        "user is already a service/courier of this merchant",
		"error.self_delivery_disabled": "merchant has self-delivery claiming disabled",
		"error.checkin_disabled":      "merchant has on-site check-in disabled",
		"error.trace_disabled":        "merchant has service voucher disabled",
		"error.staff_not_found":       "staff not found",
		"error.staff_not_trashed":     "staff is not trashed",
		"error.service_not_found":     "service/courier not found",
		"error.merchant_not_found":    "merchant not found",
		"error.user_not_found":        "user not found",
		"error.mark_failed":           "saving remark failed",
		"error.list_failed":           "listing failed",
		"error.detail_failed":         "fetching detail failed",
		"error.config_fetch_failed":   "fetching config failed",
		"error.config_update_failed":  "saving config failed",
		"error.roster_create_failed":  "creating roster entry failed",
		"error.roster_update_failed":  "updating roster entry failed",
		"error.login_failed":          "login failed",
		"error.captcha_unavailable":   "captcha service unavailable",
	},
}

// ResolveLocale 从请求解析语言：优先 X-Locale 头，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return defaultLocale
	}
	raw := strings.TrimSpace(c.GetHeader(localeHeader))
	if raw == "" {
		raw = strings.TrimSpace(c.GetHeader("Accept-Language"))
	}
	return normalizeLocale(raw)
}

// T 按语言翻译消息 key，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	normalized := normalizeLocale(locale)
	if table, ok := messages[normalized]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[defaultLocale][key]; ok {
		return msg
	}
	return key
}

func normalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultLocale
	}
	// Accept-Language 可能携带权重列表，取首个标签
	if idx := strings.IndexAny(raw, ",;"); idx > 0 {
		raw = raw[:idx]
	}
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(lower, "en"):
		return LocaleEnUS
	case strings.HasPrefix(lower, "zh"):
		return LocaleZhCN
	default:
		return defaultLocale
	}
}
