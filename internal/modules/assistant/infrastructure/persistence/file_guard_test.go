package persistence_test

import (
	"context"
	"testing"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	chatEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	chatPersistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/infrastructure/persistence"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"

	persistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/infrastructure/persistence"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Assistant{},
		&entity.AssistantFile{},
		&chatEntity.Thread{},
		&chatEntity.ThreadFile{},
	))
	return db
}

func assertDuplicate(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	ce, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.BadRequest, ce.Code)
	assert.Equal(t, "duplicate_in_other_scope", ce.Message)
}

func TestAssertFileIDUniqueFreeID(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return persistence.AssertFileIDUnique(tx, "file-free", true)
	}))
}

func TestAssistantFileBlocksThreadFile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	repo := persistence.NewAssistantRepository(db)
	asst := &entity.Assistant{Id: "a1", Name: "helper", OwnerId: 1}
	require.NoError(t, repo.Create(ctx, asst, []entity.AssistantFile{
		{Id: "af1", AssistantId: "a1", UserId: 1, OriginalName: "a.pdf", FileId: "file-1", SizeBytes: 1, Status: entity.FileStatusReady},
	}))

	threadFileRepo := chatPersistence.NewThreadFileRepository(db)
	err := threadFileRepo.Create(ctx, &chatEntity.ThreadFile{ThreadId: 1, FileId: "file-1"})
	assertDuplicate(t, err)
}

func TestThreadFileBlocksAssistantFile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	threadFileRepo := chatPersistence.NewThreadFileRepository(db)
	require.NoError(t, threadFileRepo.Create(ctx, &chatEntity.ThreadFile{ThreadId: 1, FileId: "file-1"}))

	repo := persistence.NewAssistantRepository(db)
	err := repo.AddFiles(ctx, []entity.AssistantFile{
		{Id: "af1", AssistantId: "a1", UserId: 1, OriginalName: "a.pdf", FileId: "file-1", SizeBytes: 1, Status: entity.FileStatusReady},
	})
	assertDuplicate(t, err)
}

func TestGuardedCreateRollsBackWholeBatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	threadFileRepo := chatPersistence.NewThreadFileRepository(db)
	require.NoError(t, threadFileRepo.Create(ctx, &chatEntity.ThreadFile{ThreadId: 1, FileId: "file-2"}))

	// 第二个文件撞守卫，第一条文件行与助手行一并回滚
	repo := persistence.NewAssistantRepository(db)
	asst := &entity.Assistant{Id: "a1", Name: "helper", OwnerId: 1}
	err := repo.Create(ctx, asst, []entity.AssistantFile{
		{Id: "af1", AssistantId: "a1", UserId: 1, OriginalName: "a.pdf", FileId: "file-1", SizeBytes: 1, Status: entity.FileStatusReady},
		{Id: "af2", AssistantId: "a1", UserId: 1, OriginalName: "b.pdf", FileId: "file-2", SizeBytes: 1, Status: entity.FileStatusReady},
	})
	assertDuplicate(t, err)

	var asstCount, fileCount int64
	require.NoError(t, db.Model(&entity.Assistant{}).Count(&asstCount).Error)
	require.NoError(t, db.Model(&entity.AssistantFile{}).Count(&fileCount).Error)
	assert.Zero(t, asstCount)
	assert.Zero(t, fileCount)
}
