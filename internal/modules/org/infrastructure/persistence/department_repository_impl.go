package persistence

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/repository"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"

	"gorm.io/gorm"
)

type departmentRepositoryImpl struct {
	db *gorm.DB
}

// NewDepartmentRepository 构造函数
func NewDepartmentRepository(db *gorm.DB) repository.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func (r *departmentRepositoryImpl) Create(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id int64) (*entity.Department, error) {
	var dept entity.Department
	// First 查不到会返回 ErrRecordNotFound
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]entity.Department, error) {
	var depts []entity.Department
	err := r.db.WithContext(ctx).Order("name").Find(&depts).Error
	if err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *departmentRepositoryImpl) Update(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *departmentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&entity.Department{}, "id = ?", id).Error
}

func (r *departmentRepositoryImpl) CountUsers(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userEntity.UserInfo{}).
		Where("department_id = ?", id).
		Count(&count).Error
	return count, err
}
