package repository

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
)

// AssistantRepository 接口定义
type AssistantRepository interface {
	Create(ctx context.Context, asst *entity.Assistant, files []entity.AssistantFile) error
	GetByID(ctx context.Context, id string) (*entity.Assistant, error)
	// ListVisible 返回用户可见的助手：自有 ∪ 按用户授权 ∪ 按部门授权，去重
	ListVisible(ctx context.Context, userID int64, departmentID *int64) ([]entity.Assistant, error)
	Update(ctx context.Context, asst *entity.Assistant) error
	Delete(ctx context.Context, id string) error
	AddFiles(ctx context.Context, files []entity.AssistantFile) error
	ListFiles(ctx context.Context, assistantID string) ([]entity.AssistantFile, error)
	DeleteFileByFileID(ctx context.Context, assistantID, fileID string) error
}

// MessageRepository 接口定义
type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	ListByAssistant(ctx context.Context, assistantID string) ([]entity.Message, error)
	List(ctx context.Context) ([]entity.Message, error)
	DeleteByAssistant(ctx context.Context, assistantID string) error
}
