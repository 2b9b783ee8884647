package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/config"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/application/dto/request"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/infrastructure/persistence"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) UserInfoService {
	t.Helper()
	conf := config.GetConfig()
	conf.JwtConfig.Key = "test-key"
	conf.LogConfig.LogPath = filepath.Join(t.TempDir(), "test.log")
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.UserInfo{}))
	return NewUserInfoService(persistence.NewUserInfoRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, request.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.Uuid)
	assert.False(t, user.IsAdmin)

	logged, err := svc.Login(ctx, request.LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Token)
	assert.Equal(t, user.Uuid, logged.User.Uuid)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, request.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, request.RegisterRequest{Username: "alice", Password: "other"})
	require.Error(t, err)
	ce, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.Conflict, ce.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, request.RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, request.LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	ce, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.Unauthorized, ce.Code)

	// 不存在的用户同样是 401，不区分两种失败
	_, err = svc.Login(ctx, request.LoginRequest{Username: "nobody", Password: "x"})
	ce, ok = err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.Unauthorized, ce.Code)
}
