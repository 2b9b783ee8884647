package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/application/dto/request"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/application/dto/respond"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/util"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/util/myjwt"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfoService 用户应用服务接口
type UserInfoService interface {
	Register(ctx context.Context, req request.RegisterRequest) (*respond.UserRespond, error)
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	Me(ctx context.Context, uuid string) (*respond.UserRespond, error)
}

type userInfoServiceImpl struct {
	repo repository.UserInfoRepository
}

// NewUserInfoService 构造函数
func NewUserInfoService(repo repository.UserInfoRepository) UserInfoService {
	return &userInfoServiceImpl{repo: repo}
}

func toUserRespond(user *entity.UserInfo) *respond.UserRespond {
	return &respond.UserRespond{
		Id:           user.Id,
		Uuid:         user.Uuid,
		Username:     user.Username,
		IsAdmin:      user.IsAdmin != 0,
		DepartmentId: user.DepartmentId,
	}
}

func (u *userInfoServiceImpl) Register(ctx context.Context, req request.RegisterRequest) (*respond.UserRespond, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, xerr.Validation("username and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := entity.UserInfo{
		Uuid:         util.GenerateUUID(),
		Username:     username,
		Password:     string(hashed),
		DepartmentId: req.DepartmentId,
		CreatedAt:    time.Now(),
	}
	if err := u.repo.Create(ctx, &newUser); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, xerr.ConflictErr("username already exists")
		}
		zlog.Error("create user failed", zap.Error(err), zap.String("username", username))
		return nil, err
	}
	return toUserRespond(&newUser), nil
}

func (u *userInfoServiceImpl) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.Unauthorized, "invalid username or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, xerr.New(xerr.Unauthorized, "invalid username or password")
	}

	token, err := myjwt.GenerateToken(user.Uuid, user.Username)
	if err != nil {
		zlog.Error("generate token failed", zap.Error(err))
		return nil, err
	}
	return &respond.LoginRespond{Token: token, User: *toUserRespond(user)}, nil
}

func (u *userInfoServiceImpl) Me(ctx context.Context, uuid string) (*respond.UserRespond, error) {
	user, err := u.repo.GetByUuid(ctx, uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.NotFoundErr("user not found")
		}
		return nil, err
	}
	return toUserRespond(user), nil
}
