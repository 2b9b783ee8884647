package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/dto/request"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/service"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	userRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/back"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler 助手HTTP Handler
type AssistantHandler struct {
	svc      *service.AssistantService
	sharing  *service.SharingService
	userRepo userRepository.UserInfoRepository
}

// NewAssistantHandler 创建AssistantHandler
func NewAssistantHandler(svc *service.AssistantService, sharing *service.SharingService, userRepo userRepository.UserInfoRepository) *AssistantHandler {
	return &AssistantHandler{svc: svc, sharing: sharing, userRepo: userRepo}
}

// CurrentUser 按中间件写入的 uuid 取当前用户
func CurrentUser(c *gin.Context, userRepo userRepository.UserInfoRepository) (*userEntity.UserInfo, bool) {
	user, err := userRepo.GetByUuid(c.Request.Context(), c.GetString("uuid"))
	if err != nil {
		back.Error(c, xerr.Unauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

// ReadUploads 读入 multipart 表单中某个字段的全部文件
func ReadUploads(headers []*multipart.FileHeader) ([]request.UploadedFile, error) {
	uploads := make([]request.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, request.UploadedFile{
			Name:        fh.Filename,
			Data:        data,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		})
	}
	return uploads, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func firstValue(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// List 可见助手列表
//
// 路由: GET /api/assistants
func (h *AssistantHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.svc.List(c.Request.Context(), user)
	back.Result(c, data, err)
}

// Get 助手详情
//
// 路由: GET /api/assistants/:id
func (h *AssistantHandler) Get(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.svc.Get(c.Request.Context(), user, c.Param("id"))
	back.Result(c, data, err)
}

// Create 新建助手，接受 multipart（带文件）或 JSON
//
// 路由: POST /api/assistants
func (h *AssistantHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}

	var req request.CreateAssistantRequest
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		req.Name, _ = firstValue(form.Value, "name")
		req.Description, _ = firstValue(form.Value, "description")
		req.Instructions, _ = firstValue(form.Value, "instructions")
		req.Model, _ = firstValue(form.Value, "model")
		req.ReasoningEffort, _ = firstValue(form.Value, "reasoning_effort")
		req.Tools = form.Value["tools"]
		uploads, err := ReadUploads(form.File["files"])
		if err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		req.Files = uploads
	} else {
		if err := c.BindJSON(&req); err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
	}

	data, err := h.svc.Create(c.Request.Context(), user, &req)
	if err != nil {
		zlog.Error("create assistant failed", zap.Error(err))
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusCreated, data)
}

// updateJSON 区分 JSON 提交里 tools 缺省与显式空列表
type updateJSON struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Instructions    *string   `json:"instructions"`
	Model           *string   `json:"model"`
	ReasoningEffort *string   `json:"reasoning_effort"`
	Tools           *[]string `json:"tools"`
	RemoveFiles     []string  `json:"remove_files"`
}

// Update 部分更新助手
//
// 路由: PATCH /api/assistants/:id
func (h *AssistantHandler) Update(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}

	var req request.UpdateAssistantRequest
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		if v, ok := firstValue(form.Value, "name"); ok {
			req.Name = &v
		}
		if v, ok := firstValue(form.Value, "description"); ok {
			req.Description = &v
		}
		if v, ok := firstValue(form.Value, "instructions"); ok {
			req.Instructions = &v
		}
		if v, ok := firstValue(form.Value, "model"); ok {
			req.Model = &v
		}
		if v, ok := firstValue(form.Value, "reasoning_effort"); ok {
			req.ReasoningEffort = &v
		}
		if tools, ok := form.Value["tools"]; ok {
			req.Tools = tools
			req.ToolsProvided = true
		}
		req.RemoveFiles = form.Value["remove_files"]
		uploads, err := ReadUploads(form.File["files"])
		if err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		req.Files = uploads
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		var raw updateJSON
		if err := json.Unmarshal(body, &raw); err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		req.Name = raw.Name
		req.Description = raw.Description
		req.Instructions = raw.Instructions
		req.Model = raw.Model
		req.ReasoningEffort = raw.ReasoningEffort
		if raw.Tools != nil {
			req.Tools = *raw.Tools
			req.ToolsProvided = true
		}
		req.RemoveFiles = raw.RemoveFiles
	}

	data, err := h.svc.Update(c.Request.Context(), user, c.Param("id"), &req)
	back.Result(c, data, err)
}

// Delete 删除助手
//
// 路由: DELETE /api/assistants/:id
func (h *AssistantHandler) Delete(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusNoContent, nil)
}

// Messages 按助手过滤的本地消息记录
//
// 路由: GET /api/messages?assistant=<uuid>
func (h *AssistantHandler) Messages(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.svc.ListMessages(c.Request.Context(), user, c.Query("assistant"))
	back.Result(c, data, err)
}

// VectorStore 助手的向量库标识
//
// 路由: GET /api/assistants/:id/vector-store
func (h *AssistantHandler) VectorStore(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.svc.VectorStoreID(c.Request.Context(), user, c.Param("id"))
	back.Result(c, data, err)
}

// VectorStoreFiles 向量库内文件列表
//
// 路由: GET /api/assistants/:id/vector-store/files
func (h *AssistantHandler) VectorStoreFiles(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.svc.VectorStoreFiles(c.Request.Context(), user, c.Param("id"))
	back.Result(c, data, err)
}

// DeleteVectorStoreFile 从向量库解绑单个文件
//
// 路由: DELETE /api/assistants/:id/vector-store/files/:file_id
func (h *AssistantHandler) DeleteVectorStoreFile(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	err := h.svc.DetachVectorStoreFile(c.Request.Context(), user, c.Param("id"), c.Param("file_id"))
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusNoContent, nil)
}

// ListUserShares 用户授权行列表
//
// 路由: GET /api/assistants/:id/shares/users
func (h *AssistantHandler) ListUserShares(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.sharing.ListUserGrants(c.Request.Context(), user, c.Param("id"))
	back.Result(c, data, err)
}

// CreateUserShare 授权用户，新建201覆盖200
//
// 路由: POST /api/assistants/:id/shares/users
func (h *AssistantHandler) CreateUserShare(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	var req request.ShareUserRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, created, err := h.sharing.GrantUser(c.Request.Context(), user, c.Param("id"), req.User, req.Permission)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	if created {
		back.Status(c, http.StatusCreated, data)
		return
	}
	back.Success(c, data)
}

// DeleteUserShare 撤销用户授权
//
// 路由: DELETE /api/assistants/:id/shares/users/:user_id
func (h *AssistantHandler) DeleteUserShare(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	if err := h.sharing.RevokeUser(c.Request.Context(), user, c.Param("id"), targetID); err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusNoContent, nil)
}

// ListDepartmentShares 部门授权行列表
//
// 路由: GET /api/assistants/:id/shares/departments
func (h *AssistantHandler) ListDepartmentShares(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	data, err := h.sharing.ListDepartmentGrants(c.Request.Context(), user, c.Param("id"))
	back.Result(c, data, err)
}

// CreateDepartmentShare 授权部门
//
// 路由: POST /api/assistants/:id/shares/departments
func (h *AssistantHandler) CreateDepartmentShare(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	var req request.ShareDepartmentRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, created, err := h.sharing.GrantDepartment(c.Request.Context(), user, c.Param("id"), req.Department, req.Permission)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	if created {
		back.Status(c, http.StatusCreated, data)
		return
	}
	back.Success(c, data)
}

// DeleteDepartmentShare 撤销部门授权
//
// 路由: DELETE /api/assistants/:id/shares/departments/:department_id
func (h *AssistantHandler) DeleteDepartmentShare(c *gin.Context) {
	user, ok := CurrentUser(c, h.userRepo)
	if !ok {
		return
	}
	deptID, err := strconv.ParseInt(c.Param("department_id"), 10, 64)
	if err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	if err := h.sharing.RevokeDepartment(c.Request.Context(), user, c.Param("id"), deptID); err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusNoContent, nil)
}
