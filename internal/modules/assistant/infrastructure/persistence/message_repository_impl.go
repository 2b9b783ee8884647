package persistence

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"

	"gorm.io/gorm"
)

type messageRepositoryImpl struct {
	db *gorm.DB
}

// NewMessageRepository 构造函数
func NewMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &messageRepositoryImpl{db: db}
}

func (r *messageRepositoryImpl) Create(ctx context.Context, msg *entity.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepositoryImpl) ListByAssistant(ctx context.Context, assistantID string) ([]entity.Message, error) {
	var msgs []entity.Message
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Order("created_at").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepositoryImpl) List(ctx context.Context) ([]entity.Message, error) {
	var msgs []entity.Message
	err := r.db.WithContext(ctx).Order("created_at").Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepositoryImpl) DeleteByAssistant(ctx context.Context, assistantID string) error {
	return r.db.WithContext(ctx).Delete(&entity.Message{}, "assistant_id = ?", assistantID).Error
}
