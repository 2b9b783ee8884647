package service

import (
	"context"
	"errors"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/dto/respond"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"
	orgRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/repository"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	userRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SharingService 授权管理。只有拥有者或平台管理员可以操作
type SharingService struct {
	assistantRepo repository.AssistantRepository
	accessRepo    repository.AccessRepository
	userRepo      userRepository.UserInfoRepository
	deptRepo      orgRepository.DepartmentRepository
}

// NewSharingService 构造函数
func NewSharingService(
	assistantRepo repository.AssistantRepository,
	accessRepo repository.AccessRepository,
	userRepo userRepository.UserInfoRepository,
	deptRepo orgRepository.DepartmentRepository,
) *SharingService {
	return &SharingService{
		assistantRepo: assistantRepo,
		accessRepo:    accessRepo,
		userRepo:      userRepo,
		deptRepo:      deptRepo,
	}
}

// loadManaged 加载助手并校验操作者的管理资格
func (s *SharingService) loadManaged(ctx context.Context, assistantID string, actor *userEntity.UserInfo) (*entity.Assistant, error) {
	asst, err := s.assistantRepo.GetByID(ctx, assistantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xerr.NotFoundErr("Assistant not found.")
	}
	if err != nil {
		return nil, err
	}
	if asst.OwnerId != actor.Id && actor.IsAdmin != 1 {
		return nil, xerr.Authorization("Only owner or admin may share")
	}
	return asst, nil
}

func validatePermission(permission string) error {
	if permission != entity.PermissionUse && permission != entity.PermissionEdit {
		return xerr.Validation("permission must be 'use' or 'edit'")
	}
	return nil
}

// GrantUser 按用户授权，重复授权覆盖权限级别。返回是否新建
func (s *SharingService) GrantUser(ctx context.Context, actor *userEntity.UserInfo, assistantID string, targetUserID int64, permission string) (*respond.ShareUserRespond, bool, error) {
	asst, err := s.loadManaged(ctx, assistantID, actor)
	if err != nil {
		return nil, false, err
	}
	if err := validatePermission(permission); err != nil {
		return nil, false, err
	}
	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, xerr.NotFoundErr("user not found")
	}
	if err != nil {
		return nil, false, err
	}
	// 拥有者自带 edit 权限，不允许出现为授权行
	if target.Id == asst.OwnerId {
		return nil, false, xerr.Validation("Cannot modify owner permissions")
	}

	access := &entity.AssistantUserAccess{
		AssistantId: asst.Id,
		UserId:      target.Id,
		Permission:  permission,
	}
	created, err := s.accessRepo.UpsertUserAccess(ctx, access)
	if err != nil {
		return nil, false, err
	}
	zlog.Info("assistant shared with user",
		zap.String("assistantId", asst.Id), zap.Int64("userId", target.Id), zap.String("permission", permission))
	return &respond.ShareUserRespond{Assistant: asst.Id, User: target.Id, Permission: permission}, created, nil
}

// GrantDepartment 按部门授权。返回是否新建
func (s *SharingService) GrantDepartment(ctx context.Context, actor *userEntity.UserInfo, assistantID string, departmentID int64, permission string) (*respond.ShareDepartmentRespond, bool, error) {
	asst, err := s.loadManaged(ctx, assistantID, actor)
	if err != nil {
		return nil, false, err
	}
	if err := validatePermission(permission); err != nil {
		return nil, false, err
	}
	dept, err := s.deptRepo.GetByID(ctx, departmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, xerr.NotFoundErr("department not found")
	}
	if err != nil {
		return nil, false, err
	}

	access := &entity.AssistantDepartmentAccess{
		AssistantId:  asst.Id,
		DepartmentId: dept.Id,
		Permission:   permission,
	}
	created, err := s.accessRepo.UpsertDepartmentAccess(ctx, access)
	if err != nil {
		return nil, false, err
	}
	zlog.Info("assistant shared with department",
		zap.String("assistantId", asst.Id), zap.Int64("departmentId", dept.Id), zap.String("permission", permission))
	return &respond.ShareDepartmentRespond{Assistant: asst.Id, Department: dept.Id, Permission: permission}, created, nil
}

// RevokeUser 撤销用户授权。对拥有者恒返回 400，不论授权行是否存在
func (s *SharingService) RevokeUser(ctx context.Context, actor *userEntity.UserInfo, assistantID string, targetUserID int64) error {
	asst, err := s.loadManaged(ctx, assistantID, actor)
	if err != nil {
		return err
	}
	if targetUserID == asst.OwnerId {
		return xerr.Validation("Owner permission cannot be removed")
	}
	_, err = s.accessRepo.GetUserAccess(ctx, asst.Id, targetUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return xerr.NotFoundErr("share not found")
	}
	if err != nil {
		return err
	}
	return s.accessRepo.DeleteUserAccess(ctx, asst.Id, targetUserID)
}

// RevokeDepartment 撤销部门授权
func (s *SharingService) RevokeDepartment(ctx context.Context, actor *userEntity.UserInfo, assistantID string, departmentID int64) error {
	asst, err := s.loadManaged(ctx, assistantID, actor)
	if err != nil {
		return err
	}
	_, err = s.accessRepo.GetDepartmentAccess(ctx, asst.Id, departmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return xerr.NotFoundErr("share not found")
	}
	if err != nil {
		return err
	}
	return s.accessRepo.DeleteDepartmentAccess(ctx, asst.Id, departmentID)
}

// ListUserGrants 列出用户授权行
func (s *SharingService) ListUserGrants(ctx context.Context, actor *userEntity.UserInfo, assistantID string) ([]respond.ShareUserRespond, error) {
	asst, err := s.loadManaged(ctx, assistantID, actor)
	if err != nil {
		return nil, err
	}
	accessList, err := s.accessRepo.ListUserAccess(ctx, asst.Id)
	if err != nil {
		return nil, err
	}
	result := make([]respond.ShareUserRespond, 0, len(accessList))
	for _, a := range accessList {
		result = append(result, respond.ShareUserRespond{Assistant: a.AssistantId, User: a.UserId, Permission: a.Permission})
	}
	return result, nil
}

// ListDepartmentGrants 列出部门授权行
func (s *SharingService) ListDepartmentGrants(ctx context.Context, actor *userEntity.UserInfo, assistantID string) ([]respond.ShareDepartmentRespond, error) {
	asst, err := s.loadManaged(ctx, assistantID, actor)
	if err != nil {
		return nil, err
	}
	accessList, err := s.accessRepo.ListDepartmentAccess(ctx, asst.Id)
	if err != nil {
		return nil, err
	}
	result := make([]respond.ShareDepartmentRespond, 0, len(accessList))
	for _, a := range accessList {
		result = append(result, respond.ShareDepartmentRespond{Assistant: a.AssistantId, Department: a.DepartmentId, Permission: a.Permission})
	}
	return result, nil
}
