package actor

import (
	"strconv"
	"strings"

	"github.com/merchant-next/internal/http/handlers/shared"
	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListStaffOrders 核销员预约单列表，assigned=1 切换到未接单公共池
func (h *Handler) ListStaffOrders(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	query := service.StaffOrderListQuery{
		Page:      page,
		PageSize:  pageSize,
		Assigned:  c.Query("assigned") == "1",
		StoreName: strings.TrimSpace(c.Query("store_name")),
		Date:      strings.TrimSpace(c.Query("date")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		query.Statuses = []int{status}
	}

	orders, total, err := h.OrderQueryService.ListStaffOrders(c.Request.Context(), roleMap, query)
	if err != nil {
		respondError(c, response.CodeInternal, "error.list_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetStaffOrder 预约单详情
func (h *Handler) GetStaffOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderQueryService.GetStaffOrder(roleMap, orderID)
	if err != nil {
		respondDispatchError(c, err, "error.detail_failed")
		return
	}
	response.Success(c, order)
}

// DispatchStaffOrder 核销员接单
func (h *Handler) DispatchStaffOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	if err := h.DispatchService.ReservationDispatch(roleMap, orderID); err != nil {
		respondDispatchError(c, err, "error.operation_failed")
		return
	}
	response.Success(c, gin.H{"dispatched": true})
}

// CheckInRequest 上门打卡请求
type CheckInRequest struct {
	ClockInInfo string `json:"clock_in_info" binding:"required"`
}

// CheckInStaffOrder 上门打卡
func (h *Handler) CheckInStaffOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.DispatchService.CheckIn(c.Request.Context(), roleMap, orderID, req.ClockInInfo); err != nil {
		respondDispatchError(c, err, "error.operation_failed")
		return
	}
	response.Success(c, gin.H{"checked_in": true})
}

// TraceRequest 服务凭证请求
type TraceRequest struct {
	ReservationServiceVoucher string `json:"reservation_service_voucher" binding:"required"`
}

// TraceStaffOrder 提交服务凭证
func (h *Handler) TraceStaffOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req TraceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.DispatchService.AddTrace(c.Request.Context(), roleMap, orderID, req.ReservationServiceVoucher); err != nil {
		respondDispatchError(c, err, "error.operation_failed")
		return
	}
	response.Success(c, gin.H{"traced": true})
}

// VerifyRequest 核销请求
type VerifyRequest struct {
	MerID uint `json:"mer_id" binding:"required"`
}

// VerifyStaffOrder 核销预约单
func (h *Handler) VerifyStaffOrder(c *gin.Context) {
	roleMap, ok := shared.GetRoleMap(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.DispatchService.Verify(roleMap, orderID, req.MerID); err != nil {
		respondDispatchError(c, err, "error.operation_failed")
		return
	}
	response.Success(c, gin.H{"verified": true})
}
