package service

import (
	"context"
	"testing"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/infrastructure/persistence"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (DepartmentService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Department{}, &userEntity.UserInfo{}))
	return NewDepartmentService(persistence.NewDepartmentRepository(db)), db
}

func codeOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	ce, ok := err.(*xerr.CodeError)
	require.True(t, ok, "expected *xerr.CodeError, got %T: %v", err, err)
	return ce.Code
}

func TestCreateTrimsAndRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	dept, err := svc.Create(ctx, "  sales  ")
	require.NoError(t, err)
	assert.Equal(t, "sales", dept.Name)

	_, err = svc.Create(ctx, "   ")
	assert.Equal(t, xerr.BadRequest, codeOf(t, err))
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "sales")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "sales")
	assert.Equal(t, xerr.Conflict, codeOf(t, err))
}

func TestDeleteBlockedWhileUsersAssigned(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	dept, err := svc.Create(ctx, "sales")
	require.NoError(t, err)
	require.NoError(t, db.Create(&userEntity.UserInfo{
		Uuid: "u1", Username: "alice", Password: "x", DepartmentId: &dept.Id,
	}).Error)

	err = svc.Delete(ctx, dept.Id)
	require.Error(t, err)
	assert.Equal(t, xerr.BadRequest, codeOf(t, err))
	assert.Contains(t, err.Error(), "Cannot delete department while users are assigned")

	// 移出用户后删除通过
	require.NoError(t, db.Model(&userEntity.UserInfo{}).Where("username = ?", "alice").Update("department_id", nil).Error)
	require.NoError(t, svc.Delete(ctx, dept.Id))
}

func TestDeleteMissingDepartment(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Delete(context.Background(), 42)
	assert.Equal(t, xerr.NotFound, codeOf(t, err))
}

func TestRenameKeepsUniqueness(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "sales")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "support")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, first.Id, "presales")
	require.NoError(t, err)
	assert.Equal(t, "presales", renamed.Name)

	_, err = svc.Rename(ctx, first.Id, "support")
	assert.Equal(t, xerr.Conflict, codeOf(t, err))
}
