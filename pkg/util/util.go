package util

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成一个标准的 UUID (v4)，用作助手、消息等聚合的主键
func GenerateUUID() string {
	return uuid.New().String()
}
