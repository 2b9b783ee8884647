package respond

import "time"

// ChatRespond 一轮对话的助手回复
type ChatRespond struct {
	Reply string `json:"reply"`
}

// ThreadFileRespond 会话文件视图
type ThreadFileRespond struct {
	Id           int64     `json:"id"`
	FileId       string    `json:"file_id"`
	UserId       int64     `json:"user_id"`
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	MimeType     string    `json:"mime_type"`
	Status       string    `json:"status"`
	ErrorReason  string    `json:"error_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
