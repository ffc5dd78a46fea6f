package service

import (
	"github.com/merchant-next/internal/logger"
	"github.com/merchant-next/internal/models"
	"github.com/merchant-next/internal/repository"
)

// RoleMap 一次请求内的角色快照：三张独立的 mer_id 索引表。
// 每次请求解析一次后只读传递，绝不跨请求缓存。
type RoleMap struct {
	UID      uint
	Services map[uint]models.Service
	Staff    map[uint]models.Staff
	Couriers map[uint]models.Service
}

// HasAnyRole 判断是否持有任意角色
func (m *RoleMap) HasAnyRole() bool {
	if m == nil {
		return false
	}
	return len(m.Services) > 0 || len(m.Staff) > 0 || len(m.Couriers) > 0
}

// StaffMerIDs 核销员身份覆盖的商户集合
func (m *RoleMap) StaffMerIDs() []uint {
	if m == nil {
		return nil
	}
	ids := make([]uint, 0, len(m.Staff))
	for merID := range m.Staff {
		ids = append(ids, merID)
	}
	return ids
}

// CourierMerIDs 配送员身份覆盖的商户集合
func (m *RoleMap) CourierMerIDs() []uint {
	if m == nil {
		return nil
	}
	ids := make([]uint, 0, len(m.Couriers))
	for merID := range m.Couriers {
		ids = append(ids, merID)
	}
	return ids
}

// StaffIDs 持有的全部 staffs_id
func (m *RoleMap) StaffIDs() []uint {
	if m == nil {
		return nil
	}
	ids := make([]uint, 0, len(m.Staff))
	for _, staff := range m.Staff {
		ids = append(ids, staff.ID)
	}
	return ids
}

// CourierIDs 持有的全部配送 service_id
func (m *RoleMap) CourierIDs() []uint {
	if m == nil {
		return nil
	}
	ids := make([]uint, 0, len(m.Couriers))
	for _, courier := range m.Couriers {
		ids = append(ids, courier.ID)
	}
	return ids
}

// RoleService 角色解析服务
type RoleService struct {
	userRepo    repository.UserRepository
	staffRepo   repository.StaffRepository
	serviceRepo repository.ServiceRepository
}

// NewRoleService 创建角色解析服务
func NewRoleService(userRepo repository.UserRepository, staffRepo repository.StaffRepository, serviceRepo repository.ServiceRepository) *RoleService {
	return &RoleService{
		userRepo:    userRepo,
		staffRepo:   staffRepo,
		serviceRepo: serviceRepo,
	}
}

// Resolve 解析账号在各商户下持有的角色。
// 同一商户出现两行启用记录属于配置错误，按后写覆盖处理并告警。
func (s *RoleService) Resolve(uid uint) (*RoleMap, error) {
	roleMap := &RoleMap{
		UID:      uid,
		Services: make(map[uint]models.Service),
		Staff:    make(map[uint]models.Staff),
		Couriers: make(map[uint]models.Service),
	}
	if uid == 0 {
		return roleMap, nil
	}

	services, err := s.serviceRepo.ListActiveByUID(uid)
	if err != nil {
		return nil, err
	}
	fillServiceRoles(roleMap, services, uid)

	staffs, err := s.staffRepo.ListActiveByUID(uid)
	if err != nil {
		return nil, err
	}
	for _, staff := range staffs {
		if _, exists := roleMap.Staff[staff.MerID]; exists {
			logger.Warnw("role_resolve_duplicate_staff_row",
				"uid", uid, "mer_id", staff.MerID, "staffs_id", staff.ID)
		}
		roleMap.Staff[staff.MerID] = staff
	}

	// 子账号的客服身份可回落到主账号
	if err := s.applyMainAccountFallback(roleMap, uid); err != nil {
		return nil, err
	}
	return roleMap, nil
}

// applyMainAccountFallback 客服角色的主账号回落：
// 子账号没有客服记录的商户，用 main_uid 的客服记录补位。
func (s *RoleService) applyMainAccountFallback(roleMap *RoleMap, uid uint) error {
	user, err := s.userRepo.GetByID(uid)
	if err != nil {
		return err
	}
	if user == nil || user.MainUID == 0 || user.MainUID == uid {
		return nil
	}

	mainServices, err := s.serviceRepo.ListActiveByUID(user.MainUID)
	if err != nil {
		return err
	}
	for _, svc := range mainServices {
		if !svc.Customer {
			continue
		}
		if _, exists := roleMap.Services[svc.MerID]; exists {
			continue
		}
		roleMap.Services[svc.MerID] = svc
	}
	return nil
}

func fillServiceRoles(roleMap *RoleMap, services []models.Service, uid uint) {
	for _, svc := range services {
		if svc.Customer {
			if _, exists := roleMap.Services[svc.MerID]; exists {
				logger.Warnw("role_resolve_duplicate_service_row",
					"uid", uid, "mer_id", svc.MerID, "service_id", svc.ID)
			}
			roleMap.Services[svc.MerID] = svc
		}
		if svc.Delivery {
			if _, exists := roleMap.Couriers[svc.MerID]; exists {
				logger.Warnw("role_resolve_duplicate_courier_row",
					"uid", uid, "mer_id", svc.MerID, "service_id", svc.ID)
			}
			roleMap.Couriers[svc.MerID] = svc
		}
	}
}
