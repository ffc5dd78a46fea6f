package admin

import (
	"errors"
	"strconv"

	"github.com/merchant-next/internal/http/handlers/shared"
	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError struct {
	target error
	code   int
	key    string
}

var rosterErrorRules = []mappedHandlerError{
	{target: service.ErrMerchantNotFound, code: response.CodeNotFound, key: "error.merchant_not_found"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
	{target: service.ErrStaffNotFound, code: response.CodeNotFound, key: "error.staff_not_found"},
	{target: service.ErrServiceNotFound, code: response.CodeNotFound, key: "error.service_not_found"},
	{target: service.ErrStaffExists, code: response.CodeBadRequest, key: "error.staff_exists"},
	{target: service.ErrServiceExists, code: response.CodeBadRequest, key: "error.service_exists"},
	{target: service.ErrStaffNotTrashed, code: response.CodeBadRequest, key: "error.staff_not_trashed"},
}

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

func respondRosterError(c *gin.Context, err error, fallbackKey string) {
	for _, rule := range rosterErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, fallbackKey, err)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
