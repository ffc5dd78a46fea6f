package admin

import (
	"strconv"
	"strings"

	"github.com/merchant-next/internal/http/handlers/shared"
	"github.com/merchant-next/internal/http/response"
	"github.com/merchant-next/internal/repository"
	"github.com/merchant-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateStaffRequest 创建核销员请求
type CreateStaffRequest struct {
	UID   uint   `json:"uid" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Photo string `json:"photo"`
}

// ListStaff 核销员列表，trashed=1 查看回收站
func (h *Handler) ListStaff(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.StaffListFilter{
		Page:        page,
		PageSize:    pageSize,
		MerID:       merID,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		OnlyTrashed: c.Query("trashed") == "1",
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		filter.Status = &status
	}

	staffs, total, err := h.RosterService.ListStaff(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.list_failed", err)
		return
	}
	response.SuccessWithPage(c, staffs, response.BuildPagination(page, pageSize, total))
}

// CreateStaff 创建核销员
func (h *Handler) CreateStaff(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	staff, err := h.RosterService.CreateStaff(service.CreateStaffInput{
		MerID: merID,
		UID:   req.UID,
		Name:  req.Name,
		Phone: req.Phone,
		Photo: req.Photo,
	})
	if err != nil {
		respondRosterError(c, err, "error.roster_create_failed")
		return
	}
	response.Success(c, staff)
}

// UpdateStaffStatusRequest 启停核销员请求
type UpdateStaffStatusRequest struct {
	Status *int `json:"status" binding:"required"`
}

// UpdateStaffStatus 启用/停用核销员
func (h *Handler) UpdateStaffStatus(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}
	staffID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStaffStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.RosterService.UpdateStaffStatus(merID, staffID, *req.Status); err != nil {
		respondRosterError(c, err, "error.roster_update_failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteStaff 将核销员移入回收站
func (h *Handler) DeleteStaff(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}
	staffID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.RosterService.DeleteStaff(merID, staffID); err != nil {
		respondRosterError(c, err, "error.roster_update_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// RestoreStaff 从回收站恢复核销员
func (h *Handler) RestoreStaff(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}
	staffID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.RosterService.RestoreStaff(merID, staffID); err != nil {
		respondRosterError(c, err, "error.roster_update_failed")
		return
	}
	response.Success(c, gin.H{"restored": true})
}

// CreateServiceRequest 创建客服/配送员请求
type CreateServiceRequest struct {
	UID      uint   `json:"uid" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Customer bool   `json:"customer"`
	Delivery bool   `json:"delivery"`
}

// ListServices 客服/配送员列表，delivery=1 只看配送身份
func (h *Handler) ListServices(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.ServiceListFilter{
		Page:         page,
		PageSize:     pageSize,
		MerID:        merID,
		Keyword:      strings.TrimSpace(c.Query("keyword")),
		DeliveryOnly: c.Query("delivery") == "1",
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		filter.Status = &status
	}

	services, total, err := h.RosterService.ListServices(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.list_failed", err)
		return
	}
	response.SuccessWithPage(c, services, response.BuildPagination(page, pageSize, total))
}

// CreateService 创建客服/配送员
func (h *Handler) CreateService(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	svc, err := h.RosterService.CreateService(service.CreateServiceInput{
		MerID:    merID,
		UID:      req.UID,
		Name:     req.Name,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Customer: req.Customer,
		Delivery: req.Delivery,
	})
	if err != nil {
		respondRosterError(c, err, "error.roster_create_failed")
		return
	}
	response.Success(c, svc)
}

// UpdateServiceRequest 更新客服/配送员状态与身份开关
type UpdateServiceRequest struct {
	Status   *int  `json:"status"`
	Customer *bool `json:"customer"`
	Delivery *bool `json:"delivery"`
}

// UpdateService 更新客服/配送员
func (h *Handler) UpdateService(c *gin.Context) {
	merID, ok := parseUintParam(c, "mer_id")
	if !ok {
		return
	}
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Customer != nil {
		updates["customer"] = *req.Customer
	}
	if req.Delivery != nil {
		updates["delivery"] = *req.Delivery
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.RosterService.UpdateServiceFlags(merID, serviceID, updates); err != nil {
		respondRosterError(c, err, "error.roster_update_failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}
