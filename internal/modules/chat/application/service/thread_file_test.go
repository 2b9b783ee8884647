package service

import (
	"context"
	"testing"

	assistantRequest "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/dto/request"
	assistantEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadThreadFileLifecycle(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	resp, err := f.svc.UploadThreadFile(ctx, f.owner, f.asst.Id, assistantRequest.UploadedFile{
		Name:        "notes.txt",
		Data:        []byte("hello"),
		ContentType: "text/plain",
		Size:        5,
	})
	require.NoError(t, err)
	assert.Equal(t, "file-1", resp.FileId)
	assert.Equal(t, entity.FileStatusReady, resp.Status)

	var stored entity.ThreadFile
	require.NoError(t, f.db.First(&stored, "file_id = ?", "file-1").Error)
	assert.Equal(t, entity.FileStatusReady, stored.Status)
	assert.Equal(t, "notes.txt", stored.OriginalName)
	assert.Equal(t, f.owner.Id, stored.UserId)
	assert.Equal(t, f.owner.Id, resp.UserId)
}

func TestUploadThreadFileVerificationFailure(t *testing.T) {
	f := newChatFixture(t)
	f.gateway.verifyFail = true
	ctx := context.Background()

	resp, err := f.svc.UploadThreadFile(ctx, f.owner, f.asst.Id, assistantRequest.UploadedFile{
		Name: "notes.txt",
		Data: []byte("hello"),
		Size: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FileStatusError, resp.Status)
	assert.NotEmpty(t, resp.ErrorReason)
}

func TestUploadThreadFileCrossScopeRejected(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	// 同一远端文件标识已被助手文件占用
	require.NoError(t, f.db.Create(&assistantEntity.AssistantFile{
		Id:          "af1",
		AssistantId: f.asst.Id,
		UserId:      f.owner.Id,
		FileId:      "file-1",
		Status:      assistantEntity.FileStatusReady,
	}).Error)

	_, err := f.svc.UploadThreadFile(ctx, f.owner, f.asst.Id, assistantRequest.UploadedFile{
		Name: "notes.txt",
		Data: []byte("hello"),
		Size: 5,
	})
	assert.Equal(t, xerr.BadRequest, codeOf(t, err))

	var count int64
	require.NoError(t, f.db.Model(&entity.ThreadFile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListThreadFilesWithoutThread(t *testing.T) {
	f := newChatFixture(t)

	files, err := f.svc.ListThreadFiles(context.Background(), f.owner, f.asst.Id)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListThreadFiles(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.UploadThreadFile(ctx, f.owner, f.asst.Id, assistantRequest.UploadedFile{
		Name: "notes.txt",
		Data: []byte("hello"),
		Size: 5,
	})
	require.NoError(t, err)

	files, err := f.svc.ListThreadFiles(ctx, f.owner, f.asst.Id)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "file-1", files[0].FileId)
}
