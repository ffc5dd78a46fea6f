package actor

import (
	"errors"
	"strconv"

	"github.com/merchant-next/internal/http/handlers/shared"
	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

var dispatchErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrMissingRole, code: response.CodeForbidden, key: "error.missing_role"},
	{target: service.ErrNotYourMerchant, code: response.CodeForbidden, key: "error.not_your_merchant"},
	{target: service.ErrNotYourOrder, code: response.CodeForbidden, key: "error.not_your_order"},
	{target: service.ErrAlreadyClaimed, code: response.CodeBadRequest, key: "error.already_claimed"},
	{target: service.ErrAlreadyDispatched, code: response.CodeBadRequest, key: "error.already_dispatched"},
	{target: service.ErrConfirmFailed, code: response.CodeBadRequest, key: "error.confirm_failed"},
	{target: service.ErrPayloadNotJSON, code: response.CodeBadRequest, key: "error.payload_not_json"},
	{target: service.ErrSelfDeliveryOff, code: response.CodeBadRequest, key: "error.self_delivery_disabled"},
	{target: service.ErrCheckinDisabled, code: response.CodeBadRequest, key: "error.checkin_disabled"},
	{target: service.ErrTraceDisabled, code: response.CodeBadRequest, key: "error.trace_disabled"},
	{target: service.ErrOperationFailed, code: response.CodeBadRequest, key: "error.operation_failed"},
}

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

func respondDispatchError(c *gin.Context, err error, fallbackKey string) {
	for _, rule := range dispatchErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, fallbackKey, err)
}

func parseOrderID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
