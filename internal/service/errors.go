package service

import "errors"

// 派单域业务错误，handler 层用 errors.Is 映射为响应码与 i18n 文案
var (
	ErrOrderNotFound       = errors.New("order not found or not operable")
	ErrMissingRole         = errors.New("account lacks the required role")
	ErrNotYourMerchant     = errors.New("order belongs to another merchant")
	ErrNotYourOrder        = errors.New("order is owned by another account")
	ErrAlreadyClaimed      = errors.New("order already claimed by another courier")
	ErrAlreadyDispatched   = errors.New("order already taken by another staff")
	ErrConfirmFailed       = errors.New("delivery confirm failed")
	ErrOperationFailed     = errors.New("operation failed")
	ErrPayloadNotJSON      = errors.New("payload is not valid json")
	ErrSelfDeliveryOff     = errors.New("merchant self-delivery claiming disabled")
	ErrCheckinDisabled     = errors.New("merchant check-in disabled")
	ErrTraceDisabled       = errors.New("merchant service voucher disabled")
	ErrInvalidCredentials  = errors.New("invalid account or password")
	ErrUserDisabled        = errors.New("account disabled")
	ErrCaptchaRequired     = errors.New("captcha required")
	ErrCaptchaInvalid      = errors.New("captcha mismatch")
	ErrStaffExists         = errors.New("active staff row already exists")
	ErrStaffNotFound       = errors.New("staff not found")
	ErrStaffNotTrashed     = errors.New("staff is not trashed")
	ErrServiceExists       = errors.New("service roster row already exists")
	ErrServiceNotFound     = errors.New("service roster row not found")
	ErrMerchantNotFound    = errors.New("merchant not found")
	ErrUserNotFound        = errors.New("user not found")
)
