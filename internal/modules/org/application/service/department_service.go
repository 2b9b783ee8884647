package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DepartmentService 部门应用服务接口
type DepartmentService interface {
	Create(ctx context.Context, name string) (*entity.Department, error)
	Get(ctx context.Context, id int64) (*entity.Department, error)
	List(ctx context.Context) ([]entity.Department, error)
	Rename(ctx context.Context, id int64, name string) (*entity.Department, error)
	// Delete 仍有用户引用该部门时拒绝删除
	Delete(ctx context.Context, id int64) error
}

type departmentServiceImpl struct {
	repo repository.DepartmentRepository
}

// NewDepartmentService 构造函数
func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentServiceImpl{repo: repo}
}

func (s *departmentServiceImpl) Create(ctx context.Context, name string) (*entity.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, xerr.Validation("department name is required")
	}

	dept := entity.Department{Name: name, CreatedAt: time.Now()}
	if err := s.repo.Create(ctx, &dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, xerr.ConflictErr("department name already exists")
		}
		zlog.Error("create department failed", zap.Error(err), zap.String("name", name))
		return nil, err
	}
	return &dept, nil
}

func (s *departmentServiceImpl) Get(ctx context.Context, id int64) (*entity.Department, error) {
	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.NotFoundErr("department not found")
		}
		return nil, err
	}
	return dept, nil
}

func (s *departmentServiceImpl) List(ctx context.Context) ([]entity.Department, error) {
	return s.repo.List(ctx)
}

func (s *departmentServiceImpl) Rename(ctx context.Context, id int64, name string) (*entity.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, xerr.Validation("department name is required")
	}

	dept, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.Name = name
	if err := s.repo.Update(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, xerr.ConflictErr("department name already exists")
		}
		return nil, err
	}
	return dept, nil
}

func (s *departmentServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return xerr.Validation("Cannot delete department while users are assigned")
	}
	return s.repo.Delete(ctx, id)
}
