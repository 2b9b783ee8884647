package entity

import "time"

// Thread 用户与助手之间的会话，每个 (assistant, user) 组合唯一
type Thread struct {
	Id          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AssistantId string    `gorm:"column:assistant_id;type:char(36);not null;uniqueIndex:idx_thread_assistant_user" json:"assistant_id"`
	UserId      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_thread_assistant_user" json:"user_id"`
	OpenaiId    string    `gorm:"column:openai_id;type:varchar(64)" json:"openai_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Thread) TableName() string {
	return "thread"
}
