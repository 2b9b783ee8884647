package request

// UploadedFile 已读入内存的上传文件
type UploadedFile struct {
	Name        string
	Data        []byte
	ContentType string
	Size        int64
}

// CreateAssistantRequest 创建助手。multipart 表单与 JSON 两种提交都映射到此
type CreateAssistantRequest struct {
	Name            string         `json:"name" form:"name" binding:"required"`
	Description     string         `json:"description" form:"description"`
	Instructions    string         `json:"instructions" form:"instructions"`
	Model           string         `json:"model" form:"model"`
	ReasoningEffort string         `json:"reasoning_effort" form:"reasoning_effort"`
	Tools           []string       `json:"tools" form:"tools"`
	Files           []UploadedFile `json:"-" form:"-"`
}

// UpdateAssistantRequest 部分更新。指针字段缺省表示不变
type UpdateAssistantRequest struct {
	Name            *string  `json:"name" form:"name"`
	Description     *string  `json:"description" form:"description"`
	Instructions    *string  `json:"instructions" form:"instructions"`
	Model           *string  `json:"model" form:"model"`
	ReasoningEffort *string  `json:"reasoning_effort" form:"reasoning_effort"`
	Tools           []string `json:"tools" form:"tools"`
	// ToolsProvided 区分"未提交 tools"与"提交了空列表"
	ToolsProvided bool           `json:"-" form:"-"`
	RemoveFiles   []string       `json:"remove_files" form:"remove_files"`
	Files         []UploadedFile `json:"-" form:"-"`
}

// ShareUserRequest 按用户授权
type ShareUserRequest struct {
	User       int64  `json:"user" binding:"required"`
	Permission string `json:"permission" binding:"required"`
}

// ShareDepartmentRequest 按部门授权
type ShareDepartmentRequest struct {
	Department int64  `json:"department" binding:"required"`
	Permission string `json:"permission" binding:"required"`
}
