package repository

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
)

// AccessRepository 授权行的读写接口
type AccessRepository interface {
	GetUserAccess(ctx context.Context, assistantID string, userID int64) (*entity.AssistantUserAccess, error)
	GetDepartmentAccess(ctx context.Context, assistantID string, departmentID int64) (*entity.AssistantDepartmentAccess, error)
	ListUserAccess(ctx context.Context, assistantID string) ([]entity.AssistantUserAccess, error)
	ListDepartmentAccess(ctx context.Context, assistantID string) ([]entity.AssistantDepartmentAccess, error)

	// UpsertUserAccess 按 (assistant, user) 幂等写入，重复授权覆盖权限级别。
	// 返回是否新建
	UpsertUserAccess(ctx context.Context, access *entity.AssistantUserAccess) (bool, error)
	UpsertDepartmentAccess(ctx context.Context, access *entity.AssistantDepartmentAccess) (bool, error)

	// CreateUserAccess 直接插入，(assistant, user) 已存在时返回唯一约束冲突
	CreateUserAccess(ctx context.Context, access *entity.AssistantUserAccess) error

	DeleteUserAccess(ctx context.Context, assistantID string, userID int64) error
	DeleteDepartmentAccess(ctx context.Context, assistantID string, departmentID int64) error
}
