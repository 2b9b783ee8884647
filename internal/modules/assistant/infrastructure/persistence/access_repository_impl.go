package persistence

import (
	"context"
	"errors"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"

	"gorm.io/gorm"
)

type accessRepositoryImpl struct {
	db *gorm.DB
}

// NewAccessRepository 构造函数
func NewAccessRepository(db *gorm.DB) repository.AccessRepository {
	return &accessRepositoryImpl{db: db}
}

func (r *accessRepositoryImpl) GetUserAccess(ctx context.Context, assistantID string, userID int64) (*entity.AssistantUserAccess, error) {
	var access entity.AssistantUserAccess
	err := r.db.WithContext(ctx).
		Where("assistant_id = ? AND user_id = ?", assistantID, userID).
		First(&access).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}

func (r *accessRepositoryImpl) GetDepartmentAccess(ctx context.Context, assistantID string, departmentID int64) (*entity.AssistantDepartmentAccess, error) {
	var access entity.AssistantDepartmentAccess
	err := r.db.WithContext(ctx).
		Where("assistant_id = ? AND department_id = ?", assistantID, departmentID).
		First(&access).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}

func (r *accessRepositoryImpl) ListUserAccess(ctx context.Context, assistantID string) ([]entity.AssistantUserAccess, error) {
	var accessList []entity.AssistantUserAccess
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Find(&accessList).Error
	if err != nil {
		return nil, err
	}
	return accessList, nil
}

func (r *accessRepositoryImpl) ListDepartmentAccess(ctx context.Context, assistantID string) ([]entity.AssistantDepartmentAccess, error) {
	var accessList []entity.AssistantDepartmentAccess
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Find(&accessList).Error
	if err != nil {
		return nil, err
	}
	return accessList, nil
}

// UpsertUserAccess 已有授权行时覆盖权限级别，否则新建。返回是否新建
func (r *accessRepositoryImpl) UpsertUserAccess(ctx context.Context, access *entity.AssistantUserAccess) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.AssistantUserAccess
		err := tx.Where("assistant_id = ? AND user_id = ?", access.AssistantId, access.UserId).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(access).Error
		}
		if err != nil {
			return err
		}
		existing.Permission = access.Permission
		return tx.Save(&existing).Error
	})
	return created, err
}

func (r *accessRepositoryImpl) UpsertDepartmentAccess(ctx context.Context, access *entity.AssistantDepartmentAccess) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.AssistantDepartmentAccess
		err := tx.Where("assistant_id = ? AND department_id = ?", access.AssistantId, access.DepartmentId).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(access).Error
		}
		if err != nil {
			return err
		}
		existing.Permission = access.Permission
		return tx.Save(&existing).Error
	})
	return created, err
}

// CreateUserAccess 直接插入，已存在时上抛 gorm.ErrDuplicatedKey
func (r *accessRepositoryImpl) CreateUserAccess(ctx context.Context, access *entity.AssistantUserAccess) error {
	return r.db.WithContext(ctx).Create(access).Error
}

func (r *accessRepositoryImpl) DeleteUserAccess(ctx context.Context, assistantID string, userID int64) error {
	return r.db.WithContext(ctx).
		Delete(&entity.AssistantUserAccess{}, "assistant_id = ? AND user_id = ?", assistantID, userID).Error
}

func (r *accessRepositoryImpl) DeleteDepartmentAccess(ctx context.Context, assistantID string, departmentID int64) error {
	return r.db.WithContext(ctx).
		Delete(&entity.AssistantDepartmentAccess{}, "assistant_id = ? AND department_id = ?", assistantID, departmentID).Error
}
