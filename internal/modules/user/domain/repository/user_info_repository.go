package repository

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
)

// UserInfoRepository 接口定义
type UserInfoRepository interface {
	Create(ctx context.Context, user *entity.UserInfo) error
	GetByID(ctx context.Context, id int64) (*entity.UserInfo, error)
	GetByUuid(ctx context.Context, uuid string) (*entity.UserInfo, error)
	GetByUsername(ctx context.Context, username string) (*entity.UserInfo, error)
}
