package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/dto/request"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/dto/respond"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"
	chatRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/repository"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/util"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssistantService 助手聚合的编排层：本地持久化与远端镜像的双向同步。
// 创建走两阶段：远端创建成功之前绝不落库，远端失败时本地无残留
type AssistantService struct {
	repo       repository.AssistantRepository
	msgRepo    repository.MessageRepository
	threadRepo chatRepository.ThreadRepository
	gateway    repository.AssistantGateway
	access     *AccessService
}

// NewAssistantService 构造函数
func NewAssistantService(
	repo repository.AssistantRepository,
	msgRepo repository.MessageRepository,
	threadRepo chatRepository.ThreadRepository,
	gateway repository.AssistantGateway,
	access *AccessService,
) *AssistantService {
	return &AssistantService{
		repo:       repo,
		msgRepo:    msgRepo,
		threadRepo: threadRepo,
		gateway:    gateway,
		access:     access,
	}
}

// loadWithPermission 加载助手并解析请求者权限。
// 完全无权限的用户得到 404 而非 403，不暴露资源存在性
func (s *AssistantService) loadWithPermission(ctx context.Context, assistantID string, user *userEntity.UserInfo) (*entity.Assistant, string, error) {
	asst, err := s.repo.GetByID(ctx, assistantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", xerr.NotFoundErr("Assistant not found.")
	}
	if err != nil {
		return nil, "", err
	}
	perm, err := s.access.PermissionFor(ctx, asst, user)
	if err != nil {
		return nil, "", err
	}
	if perm == "" {
		return nil, "", xerr.NotFoundErr("Assistant not found.")
	}
	return asst, perm, nil
}

// uploadFiles 逐个上传到远端，返回文件行（状态 ready）。任一失败即中止
func (s *AssistantService) uploadFiles(ctx context.Context, assistantID string, userID int64, uploads []request.UploadedFile) ([]entity.AssistantFile, error) {
	now := time.Now()
	files := make([]entity.AssistantFile, 0, len(uploads))
	for _, up := range uploads {
		fileID, err := s.gateway.UploadFile(ctx, up.Name, up.Data, up.ContentType)
		if err != nil {
			return nil, err
		}
		files = append(files, entity.AssistantFile{
			Id:           util.GenerateUUID(),
			AssistantId:  assistantID,
			UserId:       userID,
			OriginalName: up.Name,
			FileId:       fileID,
			SizeBytes:    up.Size,
			MimeType:     up.ContentType,
			Status:       entity.FileStatusReady,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return files, nil
}

func fileIDs(files []entity.AssistantFile) []string {
	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.FileId)
	}
	return ids
}

// Create 两阶段创建：先校验，再上传文件、建向量库、远端建助手，
// 全部成功后才落库。落库失败时尽力回收远端助手
func (s *AssistantService) Create(ctx context.Context, owner *userEntity.UserInfo, req *request.CreateAssistantRequest) (*respond.AssistantRespond, error) {
	tools, err := entity.ValidateTools(req.Tools)
	if err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = entity.DefaultModel
	}
	if !entity.IsAllowedModel(model) {
		return nil, xerr.Validation("model is not supported")
	}
	effort, err := entity.ValidateEffort(req.ReasoningEffort)
	if err != nil {
		return nil, err
	}

	asst := &entity.Assistant{
		Id:              util.GenerateUUID(),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Instructions:    req.Instructions,
		Tools:           tools,
		Model:           model,
		ReasoningEffort: effort,
		OwnerId:         owner.Id,
		CreatedAt:       time.Now(),
	}
	if asst.Name == "" {
		return nil, xerr.Validation("name is required")
	}

	files, err := s.uploadFiles(ctx, asst.Id, owner.Id, req.Files)
	if err != nil {
		return nil, err
	}
	ids := fileIDs(files)

	spec := repository.RemoteAssistantSpec{
		Name:            asst.Name,
		Description:     asst.Description,
		Instructions:    asst.Instructions,
		Model:           asst.Model,
		Tools:           tools,
		ReasoningEffort: effort,
	}
	if asst.HasTool(entity.ToolFileSearch) && len(ids) > 0 {
		storeID, err := s.gateway.CreateVectorStore(ctx, ids)
		if err != nil {
			return nil, err
		}
		asst.VectorStoreId = storeID
		spec.VectorStoreIds = []string{storeID}
	}
	if asst.HasTool(entity.ToolCodeInterpreter) && len(ids) > 0 {
		spec.CodeFileIds = ids
	}

	remoteID, err := s.gateway.CreateAssistant(ctx, spec)
	if err != nil {
		return nil, err
	}
	asst.OpenaiId = remoteID

	if err := s.repo.Create(ctx, asst, files); err != nil {
		// 本地落库失败，远端助手已建出，尽力回收
		_ = s.gateway.DeleteAssistant(ctx, remoteID)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, xerr.ConflictErr("file already registered")
		}
		return nil, err
	}
	zlog.Info("assistant created",
		zap.String("assistantId", asst.Id), zap.String("remoteId", remoteID), zap.Int64("ownerId", owner.Id))
	return respond.NewAssistantRespond(asst, entity.PermissionEdit, owner.Id, files), nil
}

// Update 需要 edit 权限。工具列表先过占位符再与存量比较；
// reasoning_effort 存量为空时回填 medium；远端更新总是携带工具列表
func (s *AssistantService) Update(ctx context.Context, user *userEntity.UserInfo, assistantID string, req *request.UpdateAssistantRequest) (*respond.AssistantRespond, error) {
	asst, perm, err := s.loadWithPermission(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	if perm != entity.PermissionEdit {
		return nil, xerr.Authorization("edit permission required")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, xerr.Validation("name is required")
		}
		asst.Name = name
	}
	if req.Description != nil {
		asst.Description = *req.Description
	}
	if req.Instructions != nil {
		asst.Instructions = *req.Instructions
	}
	if req.Model != nil {
		if !entity.IsAllowedModel(*req.Model) {
			return nil, xerr.Validation("model is not supported")
		}
		asst.Model = *req.Model
	}
	if req.ReasoningEffort != nil {
		effort, err := entity.ValidateEffort(*req.ReasoningEffort)
		if err != nil {
			return nil, err
		}
		asst.ReasoningEffort = effort
	}
	if asst.ReasoningEffort == "" {
		asst.ReasoningEffort = entity.EffortMedium
	}

	hadFileSearch := asst.HasTool(entity.ToolFileSearch)
	if req.ToolsProvided {
		tools, err := entity.ValidateTools(req.Tools)
		if err != nil {
			return nil, err
		}
		if !entity.SameTools(asst.Tools, tools) {
			asst.Tools = tools
		}
	}
	hasFileSearch := asst.HasTool(entity.ToolFileSearch)

	files, err := s.uploadFiles(ctx, asst.Id, user.Id, req.Files)
	if err != nil {
		return nil, err
	}
	ids := fileIDs(files)
	if hasFileSearch && len(ids) > 0 {
		if asst.VectorStoreId == "" {
			storeID, err := s.gateway.CreateVectorStore(ctx, ids)
			if err != nil {
				return nil, err
			}
			asst.VectorStoreId = storeID
		} else {
			for _, id := range ids {
				if err := s.gateway.AttachVectorStoreFile(ctx, asst.VectorStoreId, id); err != nil {
					return nil, err
				}
			}
		}
	}

	if len(files) > 0 {
		if err := s.repo.AddFiles(ctx, files); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, xerr.ConflictErr("file already registered")
			}
			return nil, err
		}
	}

	for _, fileID := range req.RemoveFiles {
		if asst.VectorStoreId != "" {
			// 解绑失败即中止，本地记录保留以便重试
			if err := s.gateway.DetachVectorStoreFile(ctx, asst.VectorStoreId, fileID); err != nil {
				return nil, err
			}
		}
		if err := s.repo.DeleteFileByFileID(ctx, asst.Id, fileID); err != nil {
			return nil, err
		}
	}

	// file_search 被关掉时清空向量库挂载，单个失败跳过
	if hadFileSearch && !hasFileSearch && asst.VectorStoreId != "" {
		storeFiles, err := s.gateway.ListVectorStoreFiles(ctx, asst.VectorStoreId)
		if err != nil {
			zlog.Warn("list vector store on tool removal failed", zap.String("assistantId", asst.Id))
		} else {
			for _, fileID := range storeFiles {
				if err := s.gateway.DetachVectorStoreFile(ctx, asst.VectorStoreId, fileID); err != nil {
					zlog.Warn("detach on tool removal failed",
						zap.String("assistantId", asst.Id), zap.String("fileId", fileID))
				}
			}
		}
	}

	spec := repository.RemoteAssistantSpec{
		Name:            asst.Name,
		Description:     asst.Description,
		Instructions:    asst.Instructions,
		Model:           asst.Model,
		Tools:           asst.Tools,
		ReasoningEffort: asst.ReasoningEffort,
	}
	if hasFileSearch && asst.VectorStoreId != "" {
		spec.VectorStoreIds = []string{asst.VectorStoreId}
	}
	if asst.OpenaiId != "" {
		if err := s.gateway.UpdateAssistant(ctx, asst.OpenaiId, spec); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, asst); err != nil {
		return nil, err
	}
	allFiles, err := s.repo.ListFiles(ctx, asst.Id)
	if err != nil {
		return nil, err
	}
	return respond.NewAssistantRespond(asst, perm, user.Id, allFiles), nil
}

// Delete 远端删除尽力而为，失败只记日志，本地删除总是执行
func (s *AssistantService) Delete(ctx context.Context, user *userEntity.UserInfo, assistantID string) error {
	asst, perm, err := s.loadWithPermission(ctx, assistantID, user)
	if err != nil {
		return err
	}
	if perm != entity.PermissionEdit {
		return xerr.Authorization("edit permission required")
	}

	if asst.OpenaiId != "" {
		if err := s.gateway.DeleteAssistant(ctx, asst.OpenaiId); err != nil {
			zlog.Warn("remote assistant delete failed", zap.String("assistantId", asst.Id))
		}
	}
	if asst.ThreadId != "" {
		if err := s.gateway.DeleteThread(ctx, asst.ThreadId); err != nil {
			zlog.Warn("remote thread delete failed", zap.String("assistantId", asst.Id))
		}
	}
	threads, err := s.threadRepo.ListByAssistant(ctx, asst.Id)
	if err != nil {
		return err
	}
	for _, t := range threads {
		if t.OpenaiId != "" {
			if err := s.gateway.DeleteThread(ctx, t.OpenaiId); err != nil {
				zlog.Warn("remote thread delete failed", zap.String("assistantId", asst.Id))
			}
		}
	}

	if err := s.threadRepo.DeleteByAssistant(ctx, asst.Id); err != nil {
		return err
	}
	if err := s.msgRepo.DeleteByAssistant(ctx, asst.Id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, asst.Id); err != nil {
		return err
	}
	zlog.Info("assistant deleted", zap.String("assistantId", asst.Id), zap.Int64("userId", user.Id))
	return nil
}

// Get 任意权限级别可读
func (s *AssistantService) Get(ctx context.Context, user *userEntity.UserInfo, assistantID string) (*respond.AssistantRespond, error) {
	asst, perm, err := s.loadWithPermission(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	files, err := s.repo.ListFiles(ctx, asst.Id)
	if err != nil {
		return nil, err
	}
	return respond.NewAssistantRespond(asst, perm, user.Id, files), nil
}

// List 可见集合：自有 ∪ 用户授权 ∪ 部门授权
func (s *AssistantService) List(ctx context.Context, user *userEntity.UserInfo) ([]respond.AssistantRespond, error) {
	asstList, err := s.access.VisibleAssistants(ctx, user)
	if err != nil {
		return nil, err
	}
	result := make([]respond.AssistantRespond, 0, len(asstList))
	for i := range asstList {
		perm, err := s.access.PermissionFor(ctx, &asstList[i], user)
		if err != nil {
			return nil, err
		}
		result = append(result, *respond.NewAssistantRespond(&asstList[i], perm, user.Id, nil))
	}
	return result, nil
}

// VectorStoreID 取助手的向量库标识
func (s *AssistantService) VectorStoreID(ctx context.Context, user *userEntity.UserInfo, assistantID string) (*respond.VectorStoreRespond, error) {
	asst, _, err := s.loadWithPermission(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	if asst.VectorStoreId == "" {
		return nil, xerr.NotFoundErr("No vector store for this assistant.")
	}
	return &respond.VectorStoreRespond{VectorStoreId: asst.VectorStoreId}, nil
}

// VectorStoreFiles 列出向量库内文件，文件名先查本地镜像，缺失时尽力问远端
func (s *AssistantService) VectorStoreFiles(ctx context.Context, user *userEntity.UserInfo, assistantID string) ([]respond.VectorStoreFileRespond, error) {
	asst, _, err := s.loadWithPermission(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	if asst.VectorStoreId == "" {
		return nil, xerr.NotFoundErr("No vector store for this assistant.")
	}
	ids, err := s.gateway.ListVectorStoreFiles(ctx, asst.VectorStoreId)
	if err != nil {
		return nil, err
	}
	localFiles, err := s.repo.ListFiles(ctx, asst.Id)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(localFiles))
	for _, f := range localFiles {
		names[f.FileId] = f.OriginalName
	}
	result := make([]respond.VectorStoreFileRespond, 0, len(ids))
	for _, id := range ids {
		name := names[id]
		if name == "" {
			name, _ = s.gateway.RetrieveFileName(ctx, id)
		}
		result = append(result, respond.VectorStoreFileRespond{FileId: id, Filename: name})
	}
	return result, nil
}

// DetachVectorStoreFile 从向量库解绑单个文件，需要 edit 权限
func (s *AssistantService) DetachVectorStoreFile(ctx context.Context, user *userEntity.UserInfo, assistantID, fileID string) error {
	asst, perm, err := s.loadWithPermission(ctx, assistantID, user)
	if err != nil {
		return err
	}
	if perm != entity.PermissionEdit {
		return xerr.Authorization("edit permission required")
	}
	if asst.VectorStoreId == "" {
		return xerr.NotFoundErr("No vector store for this assistant.")
	}
	return s.gateway.DetachVectorStoreFile(ctx, asst.VectorStoreId, fileID)
}

// ListMessages 按助手过滤的本地消息记录，读权限即可
func (s *AssistantService) ListMessages(ctx context.Context, user *userEntity.UserInfo, assistantID string) ([]entity.Message, error) {
	if assistantID == "" {
		return nil, xerr.Validation("assistant query parameter is required")
	}
	asst, _, err := s.loadWithPermission(ctx, assistantID, user)
	if err != nil {
		return nil, err
	}
	return s.msgRepo.ListByAssistant(ctx, asst.Id)
}
