package entity

import (
	"time"
)

// 权限级别。edit 覆盖 use，未授权为空串
const (
	PermissionUse  = "use"
	PermissionEdit = "edit"
)

// reasoning_effort 取值
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Assistant 助手聚合根。OpenaiId/ThreadId/VectorStoreId 是远端镜像字段，
// 在对应远端对象创建成功前保持空串
type Assistant struct {
	Id           string   `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Name         string   `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Description  string   `gorm:"column:description;type:text" json:"description"`
	Instructions string   `gorm:"column:instructions;type:text" json:"instructions"`
	Tools        []string `gorm:"column:tools;serializer:json" json:"tools"`
	Model        string   `gorm:"column:model;type:varchar(40);not null;default:gpt-4o" json:"model"`
	// 仅对 reasoning 系列模型有意义，非 reasoning 模型不得下发远端
	ReasoningEffort string `gorm:"column:reasoning_effort;type:varchar(6);not null;default:medium" json:"reasoning_effort"`
	OwnerId         int64  `gorm:"column:owner_id;index;not null" json:"owner_id"`
	OpenaiId        string `gorm:"column:openai_id;type:varchar(64)" json:"openai_id"`
	// 旧版单线程聊天的镜像字段，会话如今按 (assistant, user) 维护在 chat 模块
	ThreadId      string    `gorm:"column:thread_id;type:varchar(64)" json:"thread_id"`
	VectorStoreId string    `gorm:"column:vector_store_id;type:varchar(64)" json:"vector_store_id"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Assistant) TableName() string {
	return "assistant"
}

// HasTool 判断助手是否启用了某个工具
func (a *Assistant) HasTool(name string) bool {
	for _, t := range a.Tools {
		if t == name {
			return true
		}
	}
	return false
}
