package repository

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
)

// ThreadRepository 会话仓储接口
type ThreadRepository interface {
	// GetOrCreate 取出 (assistant, user) 对应的会话，不存在则落库一条空会话
	GetOrCreate(ctx context.Context, assistantID string, userID int64) (*entity.Thread, error)
	GetByAssistantAndUser(ctx context.Context, assistantID string, userID int64) (*entity.Thread, error)
	ListByAssistant(ctx context.Context, assistantID string) ([]entity.Thread, error)
	UpdateOpenaiID(ctx context.Context, threadID int64, openaiID string) error
	Delete(ctx context.Context, threadID int64) error
	DeleteByAssistant(ctx context.Context, assistantID string) error
}

// ThreadFileRepository 会话文件仓储接口
type ThreadFileRepository interface {
	Create(ctx context.Context, file *entity.ThreadFile) error
	ListByThread(ctx context.Context, threadID int64) ([]entity.ThreadFile, error)
	UpdateStatus(ctx context.Context, fileID int64, status, errorReason string) error
}
