package entity

import (
	"time"
)

// 文件生命周期状态
const (
	FileStatusUploading = "uploading"
	FileStatusReady     = "ready"
	FileStatusError     = "error"
)

// AssistantFile 助手级文件（工具常驻资源）。
// FileId 是远端文件标识，跨 AssistantFile/ThreadFile 两张表全局唯一，
// 由 AssertFileIDUnique 在写入事务内保证
type AssistantFile struct {
	Id           string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	AssistantId  string    `gorm:"column:assistant_id;type:char(36);index;not null" json:"assistant"`
	UserId       int64     `gorm:"column:user_id;not null" json:"user"`
	OriginalName string    `gorm:"column:original_name;type:varchar(255);not null" json:"original_name"`
	FileId       string    `gorm:"column:file_id;type:varchar(64);uniqueIndex;not null" json:"file_id"`
	SizeBytes    int64     `gorm:"column:size_bytes;not null" json:"size_bytes"`
	MimeType     string    `gorm:"column:mime_type;type:varchar(100)" json:"mime_type"`
	Status       string    `gorm:"column:status;type:varchar(10);not null;default:uploading" json:"status"`
	ErrorReason  string    `gorm:"column:error_reason;type:text" json:"error_reason"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (AssistantFile) TableName() string {
	return "assistant_file"
}
