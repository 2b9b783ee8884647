package repository

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/entity"
)

// DepartmentRepository 接口定义
type DepartmentRepository interface {
	Create(ctx context.Context, dept *entity.Department) error
	GetByID(ctx context.Context, id int64) (*entity.Department, error)
	List(ctx context.Context) ([]entity.Department, error)
	Update(ctx context.Context, dept *entity.Department) error
	Delete(ctx context.Context, id int64) error
	// CountUsers 统计引用该部门的用户数，用于删除保护
	CountUsers(ctx context.Context, id int64) (int64, error)
}
