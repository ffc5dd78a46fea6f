package service

import (
	"strings"

	"github.com/merchant-next/internal/constants"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/repository"
)

// CreateStaffInput 创建核销员入参
type CreateStaffInput struct {
	MerID uint
	UID   uint
	Name  string
	Phone string
	Photo string
}

// CreateServiceInput 创建客服/配送员入参
type CreateServiceInput struct {
	MerID    uint
	UID      uint
	Name     string
	Phone    string
	Avatar   string
	Customer bool
	Delivery bool
}

// RosterService 花名册管理：核销员与客服/配送员的建档、启停、回收站
type RosterService struct {
	staffRepo    repository.StaffRepository
	serviceRepo  repository.ServiceRepository
	userRepo     repository.UserRepository
	merchantRepo repository.MerchantRepository
}

// NewRosterService 创建花名册服务
func NewRosterService(
	staffRepo repository.StaffRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	merchantRepo repository.MerchantRepository,
) *RosterService {
	return &RosterService{
		staffRepo:    staffRepo,
		serviceRepo:  serviceRepo,
		userRepo:     userRepo,
		merchantRepo: merchantRepo,
	}
}

// CreateStaff 创建核销员，(mer_id, uid) 在职唯一
func (s *RosterService) CreateStaff(input CreateStaffInput) (*models.Staff, error) {
	if err := s.checkMerchantAndUser(input.MerID, input.UID); err != nil {
		return nil, err
	}
	exists, err := s.staffRepo.ExistsActive(input.MerID, input.UID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStaffExists
	}

	staff := &models.Staff{
		MerID:  input.MerID,
		UID:    input.UID,
		Name:   strings.TrimSpace(input.Name),
		Phone:  strings.TrimSpace(input.Phone),
		Photo:  strings.TrimSpace(input.Photo),
		Status: constants.RosterStatusEnabled,
	}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ListStaff 核销员列表
func (s *RosterService) ListStaff(filter repository.StaffListFilter) ([]models.Staff, int64, error) {
	return s.staffRepo.List(filter)
}

// UpdateStaffStatus 启用/停用核销员
func (s *RosterService) UpdateStaffStatus(merID, staffID uint, status int) error {
	staff, err := s.staffRepo.GetByID(staffID)
	if err != nil {
		return err
	}
	if staff == nil || staff.MerID != merID {
		return ErrStaffNotFound
	}
	if status != constants.RosterStatusEnabled {
		status = constants.RosterStatusDisabled
	}
	return s.staffRepo.UpdateStatus(staffID, status)
}

// DeleteStaff 移入回收站
func (s *RosterService) DeleteStaff(merID, staffID uint) error {
	staff, err := s.staffRepo.GetByID(staffID)
	if err != nil {
		return err
	}
	if staff == nil || staff.MerID != merID {
		return ErrStaffNotFound
	}
	return s.staffRepo.SoftDelete(staffID)
}

// RestoreStaff 从回收站恢复，恢复前重查在职唯一约束
func (s *RosterService) RestoreStaff(merID, staffID uint) error {
	staff, err := s.staffRepo.GetByIDWithTrashed(staffID)
	if err != nil {
		return err
	}
	if staff == nil || staff.MerID != merID {
		return ErrStaffNotFound
	}
	if !staff.IsTrashed() {
		return ErrStaffNotTrashed
	}
	exists, err := s.staffRepo.ExistsActive(staff.MerID, staff.UID)
	if err != nil {
		return err
	}
	if exists {
		return ErrStaffExists
	}
	return s.staffRepo.Restore(staffID)
}

// CreateService 创建客服/配送员
func (s *RosterService) CreateService(input CreateServiceInput) (*models.Service, error) {
	if err := s.checkMerchantAndUser(input.MerID, input.UID); err != nil {
		return nil, err
	}
	exists, err := s.serviceRepo.ExistsActive(input.MerID, input.UID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrServiceExists
	}

	service := &models.Service{
		MerID:    input.MerID,
		UID:      input.UID,
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		Avatar:   strings.TrimSpace(input.Avatar),
		Status:   constants.RosterStatusEnabled,
		Customer: input.Customer,
		Delivery: input.Delivery,
	}
	if err := s.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	return service, nil
}

// ListServices 客服/配送员列表
func (s *RosterService) ListServices(filter repository.ServiceListFilter) ([]models.Service, int64, error) {
	return s.serviceRepo.List(filter)
}

// UpdateServiceFlags 更新状态与身份开关
func (s *RosterService) UpdateServiceFlags(merID, serviceID uint, updates map[string]interface{}) error {
	service, err := s.serviceRepo.GetByID(serviceID)
	if err != nil {
		return err
	}
	if service == nil || service.MerID != merID {
		return ErrServiceNotFound
	}
	allowed := map[string]bool{"status": true, "customer": true, "delivery": true}
	filtered := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if allowed[key] {
			filtered[key] = value
		}
	}
	return s.serviceRepo.UpdateFlags(serviceID, filtered)
}

func (s *RosterService) checkMerchantAndUser(merID, uid uint) error {
	merchant, err := s.merchantRepo.GetByID(merID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return ErrMerchantNotFound
	}
	user, err := s.userRepo.GetByID(uid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}
