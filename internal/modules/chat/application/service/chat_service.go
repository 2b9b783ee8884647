package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	assistantRequest "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/dto/request"
	assistantService "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/service"
	assistantEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	assistantRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/application/dto/respond"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/repository"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/util"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPollInterval = 500 * time.Millisecond

// ChatService 会话执行器。会话按 (assistant, user) 维护，
// 远端会话标识在首轮对话时创建并立刻落库
type ChatService struct {
	threadRepo     repository.ThreadRepository
	threadFileRepo repository.ThreadFileRepository
	assistantRepo  assistantRepository.AssistantRepository
	msgRepo        assistantRepository.MessageRepository
	gateway        assistantRepository.AssistantGateway
	access         *assistantService.AccessService
	pollInterval   time.Duration
}

// NewChatService 构造函数
func NewChatService(
	threadRepo repository.ThreadRepository,
	threadFileRepo repository.ThreadFileRepository,
	assistantRepo assistantRepository.AssistantRepository,
	msgRepo assistantRepository.MessageRepository,
	gateway assistantRepository.AssistantGateway,
	access *assistantService.AccessService,
) *ChatService {
	return &ChatService{
		threadRepo:     threadRepo,
		threadFileRepo: threadFileRepo,
		assistantRepo:  assistantRepo,
		msgRepo:        msgRepo,
		gateway:        gateway,
		access:         access,
		pollInterval:   defaultPollInterval,
	}
}

// loadUsable 加载助手并要求至少 use 权限。无权限返回 404 不暴露存在性
func (s *ChatService) loadUsable(ctx context.Context, assistantID string, user *userEntity.UserInfo) (*assistantEntity.Assistant, error) {
	asst, err := s.assistantRepo.GetByID(ctx, assistantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xerr.NotFoundErr("Assistant not found.")
	}
	if err != nil {
		return nil, err
	}
	perm, err := s.access.PermissionFor(ctx, asst, user)
	if err != nil {
		return nil, err
	}
	if perm == "" {
		return nil, xerr.NotFoundErr("Assistant not found.")
	}
	return asst, nil
}

// ensureThread 取出会话行并保证远端会话存在，远端标识创建后立刻落库
func (s *ChatService) ensureThread(ctx context.Context, asst *assistantEntity.Assistant, user *userEntity.UserInfo) (*entity.Thread, error) {
	thread, err := s.threadRepo.GetOrCreate(ctx, asst.Id, user.Id)
	if err != nil {
		return nil, err
	}
	if thread.OpenaiId == "" {
		remoteID, err := s.gateway.CreateThread(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.threadRepo.UpdateOpenaiID(ctx, thread.Id, remoteID); err != nil {
			return nil, err
		}
		thread.OpenaiId = remoteID
		// 旧版镜像字段同步，失败不阻塞对话
		asst.ThreadId = remoteID
		if err := s.assistantRepo.Update(ctx, asst); err != nil {
			zlog.Warn("legacy thread mirror update failed", zap.String("assistantId", asst.Id))
		}
	}
	return thread, nil
}

// SendTurn 执行一轮对话：投递用户消息、跑 run 轮询到终态、取回并落库回复。
// run 未正常完成时用户消息保留，不回滚
func (s *ChatService) SendTurn(ctx context.Context, user *userEntity.UserInfo, assistantID, content string) (*respond.ChatRespond, error) {
	if strings.TrimSpace(content) == "" {
		return nil, xerr.Validation("`content` field is required")
	}
	asst, err := s.loadUsable(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	if asst.OpenaiId == "" {
		return nil, xerr.Remote("assistant has no remote counterpart")
	}

	thread, err := s.ensureThread(ctx, asst, user)
	if err != nil {
		return nil, err
	}

	userMsg := &assistantEntity.Message{
		Id:          util.GenerateUUID(),
		AssistantId: asst.Id,
		Role:        assistantEntity.RoleUser,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if err := s.msgRepo.Create(ctx, userMsg); err != nil {
		return nil, err
	}
	if err := s.gateway.AppendMessage(ctx, thread.OpenaiId, assistantEntity.RoleUser, content); err != nil {
		return nil, err
	}

	run, err := s.gateway.StartRun(ctx, thread.OpenaiId, asst.OpenaiId)
	if err != nil {
		return nil, err
	}
	for !assistantRepository.IsTerminalRunStatus(run.Status) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
		run, err = s.gateway.PollRun(ctx, thread.OpenaiId, run.Id)
		if err != nil {
			return nil, err
		}
	}
	if run.Status != assistantRepository.RunStatusCompleted {
		return nil, xerr.Remote(fmt.Sprintf("Run ended with status '%s'", run.Status))
	}

	reply, err := s.gateway.LatestMessage(ctx, thread.OpenaiId)
	if err != nil {
		return nil, err
	}
	replyMsg := &assistantEntity.Message{
		Id:          util.GenerateUUID(),
		AssistantId: asst.Id,
		Role:        assistantEntity.RoleAssistant,
		Content:     reply,
		CreatedAt:   time.Now(),
	}
	if err := s.msgRepo.Create(ctx, replyMsg); err != nil {
		return nil, err
	}
	return &respond.ChatRespond{Reply: reply}, nil
}

// Reset 清掉会话：远端删除尽力而为，本地消息与会话行一并清除，
// 旧版镜像字段复位
func (s *ChatService) Reset(ctx context.Context, user *userEntity.UserInfo, assistantID string) error {
	asst, err := s.loadUsable(ctx, assistantID, user)
	if err != nil {
		return err
	}

	thread, err := s.threadRepo.GetByAssistantAndUser(ctx, asst.Id, user.Id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if thread != nil {
		if thread.OpenaiId != "" {
			if err := s.gateway.DeleteThread(ctx, thread.OpenaiId); err != nil {
				zlog.Warn("remote thread delete failed", zap.String("assistantId", asst.Id))
			}
		}
		if err := s.threadRepo.Delete(ctx, thread.Id); err != nil {
			return err
		}
	}

	if err := s.msgRepo.DeleteByAssistant(ctx, asst.Id); err != nil {
		return err
	}
	if asst.ThreadId != "" {
		asst.ThreadId = ""
		if err := s.assistantRepo.Update(ctx, asst); err != nil {
			return err
		}
	}
	return nil
}

// UploadThreadFile 上传会话文件：远端上传、带守卫落库、上传后校验收尾状态
func (s *ChatService) UploadThreadFile(ctx context.Context, user *userEntity.UserInfo, assistantID string, upload assistantRequest.UploadedFile) (*respond.ThreadFileRespond, error) {
	asst, err := s.loadUsable(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	thread, err := s.threadRepo.GetOrCreate(ctx, asst.Id, user.Id)
	if err != nil {
		return nil, err
	}

	fileID, err := s.gateway.UploadFile(ctx, upload.Name, upload.Data, upload.ContentType)
	if err != nil {
		return nil, err
	}
	file := &entity.ThreadFile{
		ThreadId:     thread.Id,
		FileId:       fileID,
		UserId:       user.Id,
		OriginalName: upload.Name,
		SizeBytes:    upload.Size,
		MimeType:     upload.ContentType,
		Status:       entity.FileStatusUploading,
	}
	if err := s.threadFileRepo.Create(ctx, file); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, xerr.ConflictErr("file already attached to this thread")
		}
		return nil, err
	}

	// 上传后回查远端元数据作为校验，查不到置为 error
	name, _ := s.gateway.RetrieveFileName(ctx, fileID)
	if name == "" {
		file.Status = entity.FileStatusError
		file.ErrorReason = "file verification failed"
	} else {
		file.Status = entity.FileStatusReady
	}
	if err := s.threadFileRepo.UpdateStatus(ctx, file.Id, file.Status, file.ErrorReason); err != nil {
		return nil, err
	}

	return &respond.ThreadFileRespond{
		Id:           file.Id,
		FileId:       file.FileId,
		UserId:       file.UserId,
		OriginalName: file.OriginalName,
		SizeBytes:    file.SizeBytes,
		MimeType:     file.MimeType,
		Status:       file.Status,
		ErrorReason:  file.ErrorReason,
		CreatedAt:    file.CreatedAt,
	}, nil
}

// ListThreadFiles 列出当前用户会话上的文件，尚无会话时返回空列表
func (s *ChatService) ListThreadFiles(ctx context.Context, user *userEntity.UserInfo, assistantID string) ([]respond.ThreadFileRespond, error) {
	asst, err := s.loadUsable(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	thread, err := s.threadRepo.GetByAssistantAndUser(ctx, asst.Id, user.Id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []respond.ThreadFileRespond{}, nil
	}
	if err != nil {
		return nil, err
	}
	files, err := s.threadFileRepo.ListByThread(ctx, thread.Id)
	if err != nil {
		return nil, err
	}
	result := make([]respond.ThreadFileRespond, 0, len(files))
	for _, f := range files {
		result = append(result, respond.ThreadFileRespond{
			Id:           f.Id,
			FileId:       f.FileId,
			UserId:       f.UserId,
			OriginalName: f.OriginalName,
			SizeBytes:    f.SizeBytes,
			MimeType:     f.MimeType,
			Status:       f.Status,
			ErrorReason:  f.ErrorReason,
			CreatedAt:    f.CreatedAt,
		})
	}
	return result, nil
}

// SetPollInterval 调整 run 轮询间隔
func (s *ChatService) SetPollInterval(d time.Duration) {
	s.pollInterval = d
}
