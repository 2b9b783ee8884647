package service

import (
	"context"
	"errors"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"

	"gorm.io/gorm"
)

// AccessService 权限解析。不做任何写入
type AccessService struct {
	assistantRepo repository.AssistantRepository
	accessRepo    repository.AccessRepository
}

// NewAccessService 构造函数
func NewAccessService(assistantRepo repository.AssistantRepository, accessRepo repository.AccessRepository) *AccessService {
	return &AccessService{assistantRepo: assistantRepo, accessRepo: accessRepo}
}

// PermissionFor 解析用户对助手的有效权限：拥有者视为 edit，
// 其余取用户授权与部门授权中的较高者，edit 覆盖 use，无授权返回空串
func (s *AccessService) PermissionFor(ctx context.Context, asst *entity.Assistant, user *userEntity.UserInfo) (string, error) {
	if asst.OwnerId == user.Id {
		return entity.PermissionEdit, nil
	}

	perm := ""
	userAccess, err := s.accessRepo.GetUserAccess(ctx, asst.Id, user.Id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if userAccess != nil {
		perm = userAccess.Permission
	}
	if perm == entity.PermissionEdit {
		return perm, nil
	}

	if user.DepartmentId != nil {
		deptAccess, err := s.accessRepo.GetDepartmentAccess(ctx, asst.Id, *user.DepartmentId)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if deptAccess != nil {
			if deptAccess.Permission == entity.PermissionEdit || perm == "" {
				perm = deptAccess.Permission
			}
		}
	}
	return perm, nil
}

// CanManage 拥有者或平台管理员可管理授权
func (s *AccessService) CanManage(asst *entity.Assistant, user *userEntity.UserInfo) bool {
	return asst.OwnerId == user.Id || user.IsAdmin == 1
}

// VisibleAssistants 用户可见的助手集合
func (s *AccessService) VisibleAssistants(ctx context.Context, user *userEntity.UserInfo) ([]entity.Assistant, error) {
	return s.assistantRepo.ListVisible(ctx, user.Id, user.DepartmentId)
}
