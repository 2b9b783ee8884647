package persistence

import (
	"context"
	"errors"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/repository"

	"gorm.io/gorm"
)

type threadRepositoryImpl struct {
	db *gorm.DB
}

// NewThreadRepository 构造函数
func NewThreadRepository(db *gorm.DB) repository.ThreadRepository {
	return &threadRepositoryImpl{db: db}
}

// GetOrCreate 并发竞态下撞唯一索引时回读对方插入的行
func (r *threadRepositoryImpl) GetOrCreate(ctx context.Context, assistantID string, userID int64) (*entity.Thread, error) {
	var thread entity.Thread
	err := r.db.WithContext(ctx).
		Where("assistant_id = ? AND user_id = ?", assistantID, userID).
		First(&thread).Error
	if err == nil {
		return &thread, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	thread = entity.Thread{AssistantId: assistantID, UserId: userID}
	err = r.db.WithContext(ctx).Create(&thread).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = r.db.WithContext(ctx).
			Where("assistant_id = ? AND user_id = ?", assistantID, userID).
			First(&thread).Error
	}
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepositoryImpl) GetByAssistantAndUser(ctx context.Context, assistantID string, userID int64) (*entity.Thread, error) {
	var thread entity.Thread
	err := r.db.WithContext(ctx).
		Where("assistant_id = ? AND user_id = ?", assistantID, userID).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepositoryImpl) ListByAssistant(ctx context.Context, assistantID string) ([]entity.Thread, error) {
	var threads []entity.Thread
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *threadRepositoryImpl) UpdateOpenaiID(ctx context.Context, threadID int64, openaiID string) error {
	return r.db.WithContext(ctx).Model(&entity.Thread{}).
		Where("id = ?", threadID).
		Update("openai_id", openaiID).Error
}

func (r *threadRepositoryImpl) Delete(ctx context.Context, threadID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.ThreadFile{}, "thread_id = ?", threadID).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Thread{}, "id = ?", threadID).Error
	})
}

func (r *threadRepositoryImpl) DeleteByAssistant(ctx context.Context, assistantID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var threadIds []int64
		err := tx.Model(&entity.Thread{}).
			Where("assistant_id = ?", assistantID).
			Pluck("id", &threadIds).Error
		if err != nil {
			return err
		}
		if len(threadIds) > 0 {
			if err := tx.Delete(&entity.ThreadFile{}, "thread_id IN ?", threadIds).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entity.Thread{}, "assistant_id = ?", assistantID).Error
	})
}
