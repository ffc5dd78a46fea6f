package actor

import (
	"strconv"
	"strings"

	"github.com/merchant-next/internal/http/handlers/shared"
	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListDeliveryOrders 配送单列表
func (h *Handler) ListDeliveryOrders(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	query := service.DeliveryOrderListQuery{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("delivery_keywords")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		query.Status = &status
	}

	orders, total, err := h.OrderQueryService.ListDeliveryOrders(c.Request.Context(), roleMap, query)
	if err != nil {
		respondError(c, response.CodeInternal, "error.list_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetDeliveryOrder 配送单详情
func (h *Handler) GetDeliveryOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderQueryService.GetDeliveryOrder(roleMap, orderID)
	if err != nil {
		respondDispatchError(c, err, "error.detail_failed")
		return
	}
	response.Success(c, order)
}

// ReceiveDeliveryOrder 配送员接单
func (h *Handler) ReceiveDeliveryOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	if err := h.DispatchService.Receive(c.Request.Context(), roleMap, orderID); err != nil {
		respondDispatchError(c, err, "error.operation_failed")
		return
	}
	response.Success(c, gin.H{"received": true})
}

// ConfirmDeliveryRequest 确认送达请求
type ConfirmDeliveryRequest struct {
	MerID uint `json:"mer_id" binding:"required"`
}

// ConfirmDeliveryOrder 确认送达
func (h *Handler) ConfirmDeliveryOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.DispatchService.Confirm(roleMap, orderID, req.MerID); err != nil {
		respondDispatchError(c, err, "error.confirm_failed")
		return
	}
	response.Success(c, gin.H{"confirmed": true})
}

// MarkDeliveryRequest 配送备注请求
type MarkDeliveryRequest struct {
	Remark string `json:"remark" binding:"required"`
}

// MarkDeliveryOrder 配送备注
func (h *Handler) MarkDeliveryOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req MarkDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.DispatchService.Mark(roleMap, orderID, req.Remark); err != nil {
		respondDispatchError(c, err, "error.mark_failed")
		return
	}
	response.Success(c, gin.H{"marked": true})
}
