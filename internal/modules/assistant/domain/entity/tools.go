package entity

import (
	"fmt"
	"strings"

	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
)

const (
	ToolFileSearch      = "file_search"
	ToolCodeInterpreter = "code_interpreter"
)

// allowedTools 助手工具白名单
var allowedTools = map[string]bool{
	ToolFileSearch: true,
}

// AllowedModels 模型白名单
var AllowedModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4.1",
	"o1",
	"o3",
	"o3-mini",
	"o4-mini",
}

const DefaultModel = "gpt-4o"

// IsReasoningModel 判断模型是否属于 reasoning 系列（o 前缀）。
// 只有该系列模型接受 reasoning_effort 参数
func IsReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o")
}

// IsAllowedModel 判断模型是否在白名单内
func IsAllowedModel(model string) bool {
	for _, m := range AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

// NormalizeTools 过滤表单编码提交空列表时产生的占位符。
// 占位符静默丢弃，不作为错误；过滤必须发生在校验与新旧工具列表比较之前，
// 否则会触发虚假的"工具已变更"同步
func NormalizeTools(raw []string) []string {
	cleaned := make([]string, 0, len(raw))
	for _, t := range raw {
		switch t {
		case "", "[]", "null", "undefined":
			continue
		}
		cleaned = append(cleaned, t)
	}
	return cleaned
}

// ValidateTools 过滤占位符后校验工具白名单，任何未知工具名拒绝整个提交
func ValidateTools(raw []string) ([]string, error) {
	cleaned := NormalizeTools(raw)
	var unknown []string
	for _, t := range cleaned {
		if !allowedTools[t] {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) > 0 {
		return nil, xerr.Validation(fmt.Sprintf("Only 'file_search' tool is supported (got: %s)", strings.Join(unknown, ", ")))
	}
	return cleaned, nil
}

// ValidateEffort 校验 reasoning_effort 取值，空值回填默认的 medium
func ValidateEffort(effort string) (string, error) {
	switch effort {
	case "":
		return EffortMedium, nil
	case EffortLow, EffortMedium, EffortHigh:
		return effort, nil
	}
	return "", xerr.Validation(fmt.Sprintf("invalid reasoning_effort %q", effort))
}

// SameTools 比较两个已归一化的工具列表是否一致（顺序敏感，与提交顺序一致）
func SameTools(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
