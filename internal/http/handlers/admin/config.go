package admin

import (
	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMerchantConfig 读取商户派单开关
func (h *Handler) GetMerchantConfig(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}

	flags, err := h.MerchantConfigService.Get(c.Request.Context(), merID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}
	response.Success(c, flags)
}

// UpdateMerchantConfigRequest 更新商户派单开关请求
type UpdateMerchantConfigRequest struct {
	DeliveryOrderStatus *bool `json:"mer_delivery_order_status"`
	EnableAssigned      *bool `json:"enable_assigned"`
	EnableCheckin       *bool `json:"enable_checkin"`
	CheckinRadius       *int  `json:"checkin_radius"`
	EnableTrace         *bool `json:"enable_trace"`
	TraceFormID         *uint `json:"trace_form_id"`
}

// UpdateMerchantConfig 更新商户派单开关，未提交的字段保持原值
func (h *Handler) UpdateMerchantConfig(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}
	var req UpdateMerchantConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	flags, err := h.MerchantConfigService.Get(c.Request.Context(), merID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}
	applyConfigPatch(&flags, req)

	if err := h.MerchantConfigService.Update(c.Request.Context(), merID, flags); err != nil {
		respondRosterError(c, err, "error.config_update_failed")
		return
	}
	response.Success(c, flags)
}

func applyConfigPatch(flags *service.MerchantFlags, req UpdateMerchantConfigRequest) {
	if req.DeliveryOrderStatus != nil {
		flags.DeliveryOrderStatus = *req.DeliveryOrderStatus
	}
	if req.EnableAssigned != nil {
		flags.EnableAssigned = *req.EnableAssigned
	}
	if req.EnableCheckin != nil {
		flags.EnableCheckin = *req.EnableCheckin
	}
	if req.CheckinRadius != nil {
		flags.CheckinRadius = *req.CheckinRadius
	}
	if req.EnableTrace != nil {
		flags.EnableTrace = *req.EnableTrace
	}
	if req.TraceFormID != nil {
		flags.TraceFormID = *req.TraceFormID
	}
}
