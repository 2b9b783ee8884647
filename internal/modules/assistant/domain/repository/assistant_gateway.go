package repository

import (
	"context"
)

// RemoteAssistantSpec 下发远端的助手描述。
// reasoning_effort 的取舍由网关按模型系列决定：创建时非 reasoning 模型不携带该字段，
// 更新时非 reasoning 模型显式置 null，避免远端残留旧值
type RemoteAssistantSpec struct {
	Name            string
	Description     string
	Instructions    string
	Model           string
	Tools           []string
	ReasoningEffort string
	// VectorStoreIds/CodeFileIds 以 tool_resources 形式附加
	VectorStoreIds []string
	CodeFileIds    []string
}

// RemoteRun 远端一次运行的句柄
type RemoteRun struct {
	Id     string
	Status string
}

// 远端运行状态
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
	RunStatusExpired   = "expired"
)

// IsTerminalRunStatus 判断运行是否已达终态
func IsTerminalRunStatus(status string) bool {
	switch status {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// RemoteFile 远端文件元信息
type RemoteFile struct {
	Id       string
	Filename string
}

// AssistantGateway 远端 AI 提供商网关。
// 失败处理策略由调用方决定：创建路径失败中止并上抛，删除/解绑路径失败由调用方吞掉
type AssistantGateway interface {
	UploadFile(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// RetrieveFileName 尽力取回文件名，失败降级为空串而非错误
	RetrieveFileName(ctx context.Context, fileID string) (string, error)

	CreateVectorStore(ctx context.Context, fileIDs []string) (string, error)
	AttachVectorStoreFile(ctx context.Context, vectorStoreID, fileID string) error
	DetachVectorStoreFile(ctx context.Context, vectorStoreID, fileID string) error
	ListVectorStoreFiles(ctx context.Context, vectorStoreID string) ([]string, error)

	CreateAssistant(ctx context.Context, spec RemoteAssistantSpec) (string, error)
	UpdateAssistant(ctx context.Context, remoteID string, spec RemoteAssistantSpec) error
	DeleteAssistant(ctx context.Context, remoteID string) error

	CreateThread(ctx context.Context) (string, error)
	DeleteThread(ctx context.Context, threadID string) error
	AppendMessage(ctx context.Context, threadID, role, content string) error
	StartRun(ctx context.Context, threadID, assistantID string) (RemoteRun, error)
	PollRun(ctx context.Context, threadID, runID string) (RemoteRun, error)
	// LatestMessage 取回会话中最新一条消息的文本内容
	LatestMessage(ctx context.Context, threadID string) (string, error)
}
