package entity

import "time"

// 会话文件状态
const (
	FileStatusUploading = "uploading"
	FileStatusReady     = "ready"
	FileStatusError     = "error"
)

// ThreadFile 挂在会话上的文件，同一会话内 file_id 不可重复
type ThreadFile struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ThreadId     int64     `gorm:"column:thread_id;not null;uniqueIndex:idx_thread_file" json:"thread_id"`
	FileId       string    `gorm:"column:file_id;type:varchar(64);not null;uniqueIndex:idx_thread_file" json:"file_id"`
	UserId       int64     `gorm:"column:user_id;not null" json:"user_id"`
	OriginalName string    `gorm:"column:original_name;type:varchar(255)" json:"original_name"`
	SizeBytes    int64     `gorm:"column:size_bytes" json:"size_bytes"`
	MimeType     string    `gorm:"column:mime_type;type:varchar(128)" json:"mime_type"`
	Status       string    `gorm:"column:status;type:varchar(16);default:uploading" json:"status"`
	ErrorReason  string    `gorm:"column:error_reason;type:varchar(255)" json:"error_reason"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ThreadFile) TableName() string {
	return "thread_file"
}
