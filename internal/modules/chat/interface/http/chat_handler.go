package http

import (
	"mime/multipart"
	"net/http"

	assistantHTTP "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/interface/http"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/application/dto/request"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/application/service"
	userRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/back"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler 会话HTTP Handler
type ChatHandler struct {
	svc      *service.ChatService
	userRepo userRepository.UserInfoRepository
}

// NewChatHandler 创建ChatHandler
func NewChatHandler(svc *service.ChatService, userRepo userRepository.UserInfoRepository) *ChatHandler {
	return &ChatHandler{svc: svc, userRepo: userRepo}
}

// Chat 执行一轮对话
//
// 路由: POST /api/assistants/:id/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	user, ok := assistantHTTP.CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	var req request.ChatRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.SendTurn(c.Request.Context(), user, c.Param("id"), req.Content)
	if err != nil {
		zlog.Error("chat turn failed", zap.String("assistantId", c.Param("id")), zap.Error(err))
		back.Result(c, nil, err)
		return
	}
	back.Success(c, data)
}

// Reset 清掉会话与本地记录
//
// 路由: POST /api/assistants/:id/reset
func (h *ChatHandler) Reset(c *gin.Context) {
	user, ok := assistantHTTP.CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	if err := h.svc.Reset(c.Request.Context(), user, c.Param("id")); err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusNoContent, nil)
}

// UploadThreadFile 上传会话文件
//
// 路由: POST /api/assistants/:id/thread/files
func (h *ChatHandler) UploadThreadFile(c *gin.Context) {
	user, ok := assistantHTTP.CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		back.Error(c, xerr.BadRequest, "`file` field is required")
		return
	}
	uploads, err := assistantHTTP.ReadUploads([]*multipart.FileHeader{fh})
	if err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.UploadThreadFile(c.Request.Context(), user, c.Param("id"), uploads[0])
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusCreated, data)
}

// ListThreadFiles 当前用户会话上的文件列表
//
// 路由: GET /api/assistants/:id/thread/files
func (h *ChatHandler) ListThreadFiles(c *gin.Context) {
	user, ok := assistantHTTP.CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.svc.ListThreadFiles(c.Request.Context(), user, c.Param("id"))
	back.Result(c, data, err)
}
