package entity

import (
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 助手的本地聊天记录，与远端会话内容互为镜像
type Message struct {
	Id          string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	AssistantId string    `gorm:"column:assistant_id;type:char(36);index;not null" json:"assistant"`
	Role        string    `gorm:"column:role;type:varchar(10);not null" json:"role"`
	Content     string    `gorm:"column:content;type:mediumtext" json:"content"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Message) TableName() string {
	return "message"
}
