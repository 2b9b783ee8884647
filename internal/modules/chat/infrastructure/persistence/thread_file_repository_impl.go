package persistence

import (
	"context"

	assistantPersistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/infrastructure/persistence"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/repository"

	"gorm.io/gorm"
)

type threadFileRepositoryImpl struct {
	db *gorm.DB
}

// NewThreadFileRepository 构造函数
func NewThreadFileRepository(db *gorm.DB) repository.ThreadFileRepository {
	return &threadFileRepositoryImpl{db: db}
}

// Create 写入前在同一事务内做 file_id 全局唯一校验，覆盖助手文件与会话文件两个作用域
func (r *threadFileRepositoryImpl) Create(ctx context.Context, file *entity.ThreadFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assistantPersistence.AssertFileIDUnique(tx, file.FileId, true); err != nil {
			return err
		}
		return tx.Create(file).Error
	})
}

func (r *threadFileRepositoryImpl) ListByThread(ctx context.Context, threadID int64) ([]entity.ThreadFile, error) {
	var files []entity.ThreadFile
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *threadFileRepositoryImpl) UpdateStatus(ctx context.Context, fileID int64, status, errorReason string) error {
	return r.db.WithContext(ctx).Model(&entity.ThreadFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{"status": status, "error_reason": errorReason}).Error
}
