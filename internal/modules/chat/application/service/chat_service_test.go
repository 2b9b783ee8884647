package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/config"
	assistantService "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/service"
	assistantEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	assistantRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"
	assistantPersistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/infrastructure/persistence"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	chatPersistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/infrastructure/persistence"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.GetConfig().LogConfig.LogPath = filepath.Join(t.TempDir(), "test.log")
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userEntity.UserInfo{},
		&assistantEntity.Assistant{},
		&assistantEntity.Message{},
		&assistantEntity.AssistantUserAccess{},
		&assistantEntity.AssistantDepartmentAccess{},
		&assistantEntity.AssistantFile{},
		&entity.Thread{},
		&entity.ThreadFile{},
	))
	return db
}

// runGateway 只覆盖会话路径用到的远端调用
type runGateway struct {
	threadSeq      int
	uploadSeq      int
	fileNames      map[string]string
	runStatuses    []string
	runIdx         int
	reply          string
	appended       []string
	deletedThreads []string
	appendErr      error
	verifyFail     bool
}

func newRunGateway() *runGateway {
	return &runGateway{
		fileNames:   map[string]string{},
		runStatuses: []string{"in_progress", "completed"},
		reply:       "sure, here you go",
	}
}

func (g *runGateway) UploadFile(_ context.Context, name string, _ []byte, _ string) (string, error) {
	g.uploadSeq++
	id := fmt.Sprintf("file-%d", g.uploadSeq)
	g.fileNames[id] = name
	return id, nil
}

func (g *runGateway) RetrieveFileName(_ context.Context, fileID string) (string, error) {
	if g.verifyFail {
		return "", nil
	}
	return g.fileNames[fileID], nil
}

func (g *runGateway) CreateVectorStore(_ context.Context, _ []string) (string, error) {
	return "vs-1", nil
}

func (g *runGateway) AttachVectorStoreFile(_ context.Context, _, _ string) error { return nil }
func (g *runGateway) DetachVectorStoreFile(_ context.Context, _, _ string) error { return nil }
func (g *runGateway) ListVectorStoreFiles(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (g *runGateway) CreateAssistant(_ context.Context, _ assistantRepository.RemoteAssistantSpec) (string, error) {
	return "asst-1", nil
}

func (g *runGateway) UpdateAssistant(_ context.Context, _ string, _ assistantRepository.RemoteAssistantSpec) error {
	return nil
}

func (g *runGateway) DeleteAssistant(_ context.Context, _ string) error { return nil }

func (g *runGateway) CreateThread(_ context.Context) (string, error) {
	g.threadSeq++
	return fmt.Sprintf("thread-%d", g.threadSeq), nil
}

func (g *runGateway) DeleteThread(_ context.Context, threadID string) error {
	g.deletedThreads = append(g.deletedThreads, threadID)
	return nil
}

func (g *runGateway) AppendMessage(_ context.Context, _, _, content string) error {
	if g.appendErr != nil {
		return g.appendErr
	}
	g.appended = append(g.appended, content)
	return nil
}

func (g *runGateway) StartRun(_ context.Context, _, _ string) (assistantRepository.RemoteRun, error) {
	g.runIdx = 0
	return assistantRepository.RemoteRun{Id: "run-1", Status: g.runStatuses[0]}, nil
}

func (g *runGateway) PollRun(_ context.Context, _, runID string) (assistantRepository.RemoteRun, error) {
	if g.runIdx < len(g.runStatuses)-1 {
		g.runIdx++
	}
	return assistantRepository.RemoteRun{Id: runID, Status: g.runStatuses[g.runIdx]}, nil
}

func (g *runGateway) LatestMessage(_ context.Context, _ string) (string, error) {
	return g.reply, nil
}

type chatFixture struct {
	db      *gorm.DB
	gateway *runGateway
	svc     *ChatService
	owner   *userEntity.UserInfo
	asst    *assistantEntity.Assistant
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := newTestDB(t)
	gateway := newRunGateway()
	assistantRepo := assistantPersistence.NewAssistantRepository(db)
	accessRepo := assistantPersistence.NewAccessRepository(db)
	msgRepo := assistantPersistence.NewMessageRepository(db)
	threadRepo := chatPersistence.NewThreadRepository(db)
	threadFileRepo := chatPersistence.NewThreadFileRepository(db)
	access := assistantService.NewAccessService(assistantRepo, accessRepo)
	svc := NewChatService(threadRepo, threadFileRepo, assistantRepo, msgRepo, gateway, access)
	svc.SetPollInterval(time.Millisecond)

	owner := &userEntity.UserInfo{Uuid: "owner-uuid", Username: "owner", Password: "x"}
	require.NoError(t, db.Create(owner).Error)
	asst := &assistantEntity.Assistant{
		Id:              "a1",
		Name:            "helper",
		Model:           "gpt-4o",
		ReasoningEffort: "medium",
		OwnerId:         owner.Id,
		OpenaiId:        "asst-1",
		CreatedAt:       time.Now(),
	}
	require.NoError(t, db.Create(asst).Error)
	return &chatFixture{db: db, gateway: gateway, svc: svc, owner: owner, asst: asst}
}

func codeOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	ce, ok := err.(*xerr.CodeError)
	require.True(t, ok, "expected *xerr.CodeError, got %T: %v", err, err)
	return ce.Code
}

func TestSendTurnRejectsEmptyContent(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendTurn(ctx, f.owner, f.asst.Id, "   ")
	assert.Equal(t, xerr.BadRequest, codeOf(t, err))

	var count int64
	require.NoError(t, f.db.Model(&assistantEntity.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendTurnHidesAssistantFromStrangers(t *testing.T) {
	f := newChatFixture(t)
	stranger := &userEntity.UserInfo{Uuid: "s-uuid", Username: "stranger", Password: "x"}
	require.NoError(t, f.db.Create(stranger).Error)

	_, err := f.svc.SendTurn(context.Background(), stranger, f.asst.Id, "hi")
	assert.Equal(t, xerr.NotFound, codeOf(t, err))
}

func TestSendTurnPersistsThreadIDImmediately(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	resp, err := f.svc.SendTurn(ctx, f.owner, f.asst.Id, "hi")
	require.NoError(t, err)
	assert.Equal(t, f.gateway.reply, resp.Reply)

	var thread entity.Thread
	require.NoError(t, f.db.Where("assistant_id = ? AND user_id = ?", f.asst.Id, f.owner.Id).First(&thread).Error)
	assert.Equal(t, "thread-1", thread.OpenaiId)

	// 第二轮复用同一远端会话
	_, err = f.svc.SendTurn(ctx, f.owner, f.asst.Id, "again")
	require.NoError(t, err)
	assert.Equal(t, 1, f.gateway.threadSeq)
}

func TestSendTurnPersistsBothMessages(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendTurn(ctx, f.owner, f.asst.Id, "hi")
	require.NoError(t, err)

	var msgs []assistantEntity.Message
	require.NoError(t, f.db.Order("created_at").Find(&msgs).Error)
	require.Len(t, msgs, 2)
	assert.Equal(t, assistantEntity.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, assistantEntity.RoleAssistant, msgs[1].Role)
	assert.Equal(t, f.gateway.reply, msgs[1].Content)
}

func TestSendTurnFailedRunKeepsUserMessage(t *testing.T) {
	f := newChatFixture(t)
	f.gateway.runStatuses = []string{"in_progress", "failed"}
	ctx := context.Background()

	_, err := f.svc.SendTurn(ctx, f.owner, f.asst.Id, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Run ended with status 'failed'")

	var msgs []assistantEntity.Message
	require.NoError(t, f.db.Find(&msgs).Error)
	require.Len(t, msgs, 1)
	assert.Equal(t, assistantEntity.RoleUser, msgs[0].Role)
}

func TestSendTurnSharedUserMayChat(t *testing.T) {
	f := newChatFixture(t)
	member := &userEntity.UserInfo{Uuid: "m-uuid", Username: "member", Password: "x"}
	require.NoError(t, f.db.Create(member).Error)
	require.NoError(t, f.db.Create(&assistantEntity.AssistantUserAccess{
		AssistantId: f.asst.Id, UserId: member.Id, Permission: assistantEntity.PermissionUse,
	}).Error)
	ctx := context.Background()

	_, err := f.svc.SendTurn(ctx, member, f.asst.Id, "hi")
	require.NoError(t, err)

	// 每个用户各有一条会话
	_, err = f.svc.SendTurn(ctx, f.owner, f.asst.Id, "hello")
	require.NoError(t, err)
	var count int64
	require.NoError(t, f.db.Model(&entity.Thread{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestResetClearsThreadAndMessages(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendTurn(ctx, f.owner, f.asst.Id, "hi")
	require.NoError(t, err)

	require.NoError(t, f.svc.Reset(ctx, f.owner, f.asst.Id))
	assert.Equal(t, []string{"thread-1"}, f.gateway.deletedThreads)

	var msgCount, threadCount int64
	require.NoError(t, f.db.Model(&assistantEntity.Message{}).Count(&msgCount).Error)
	require.NoError(t, f.db.Model(&entity.Thread{}).Count(&threadCount).Error)
	assert.Zero(t, msgCount)
	assert.Zero(t, threadCount)

	var asst assistantEntity.Assistant
	require.NoError(t, f.db.First(&asst, "id = ?", f.asst.Id).Error)
	assert.Equal(t, "", asst.ThreadId)
}

func TestResetWithoutThreadIsNoop(t *testing.T) {
	f := newChatFixture(t)
	require.NoError(t, f.svc.Reset(context.Background(), f.owner, f.asst.Id))
	assert.Empty(t, f.gateway.deletedThreads)
}

func TestSendTurnAppendFailureSurfaces(t *testing.T) {
	f := newChatFixture(t)
	f.gateway.appendErr = errors.New("network down")

	_, err := f.svc.SendTurn(context.Background(), f.owner, f.asst.Id, "hi")
	require.Error(t, err)
}
