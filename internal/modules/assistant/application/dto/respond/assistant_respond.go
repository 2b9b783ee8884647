package respond

import (
	"time"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
)

// FileRespond 助手文件视图
type FileRespond struct {
	Id           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	FileId       string    `json:"file_id"`
	SizeBytes    int64     `json:"size_bytes"`
	MimeType     string    `json:"mime_type"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssistantRespond 助手视图，附带请求者视角的权限信息
type AssistantRespond struct {
	Id              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Instructions    string        `json:"instructions"`
	Model           string        `json:"model"`
	ReasoningEffort string        `json:"reasoning_effort"`
	Tools           []string      `json:"tools"`
	Owner           int64         `json:"owner"`
	IsOwner         bool          `json:"is_owner"`
	Permission      string        `json:"permission"`
	Files           []FileRespond `json:"files,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// NewAssistantRespond 按请求者视角组装助手视图
func NewAssistantRespond(asst *entity.Assistant, permission string, userID int64, files []entity.AssistantFile) *AssistantRespond {
	tools := asst.Tools
	if tools == nil {
		tools = []string{}
	}
	resp := &AssistantRespond{
		Id:              asst.Id,
		Name:            asst.Name,
		Description:     asst.Description,
		Instructions:    asst.Instructions,
		Model:           asst.Model,
		ReasoningEffort: asst.ReasoningEffort,
		Tools:           tools,
		Owner:           asst.OwnerId,
		IsOwner:         asst.OwnerId == userID,
		Permission:      permission,
		CreatedAt:       asst.CreatedAt,
	}
	for _, f := range files {
		resp.Files = append(resp.Files, FileRespond{
			Id:           f.Id,
			OriginalName: f.OriginalName,
			FileId:       f.FileId,
			SizeBytes:    f.SizeBytes,
			MimeType:     f.MimeType,
			Status:       f.Status,
			CreatedAt:    f.CreatedAt,
		})
	}
	return resp
}

// ShareUserRespond 用户授权行视图
type ShareUserRespond struct {
	Assistant  string `json:"assistant"`
	User       int64  `json:"user"`
	Permission string `json:"permission"`
}

// ShareDepartmentRespond 部门授权行视图
type ShareDepartmentRespond struct {
	Assistant  string `json:"assistant"`
	Department int64  `json:"department"`
	Permission string `json:"permission"`
}

// VectorStoreRespond 向量库标识
type VectorStoreRespond struct {
	VectorStoreId string `json:"vector_store_id"`
}

// VectorStoreFileRespond 向量库内文件视图，文件名尽力解析
type VectorStoreFileRespond struct {
	FileId   string `json:"file_id"`
	Filename string `json:"filename"`
}
