package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToolsFiltersPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"file_search"},
		NormalizeTools([]string{"", "[]", "null", "undefined", "file_search"}))
	assert.Empty(t, NormalizeTools([]string{"", "[]"}))
}

func TestValidateToolsRejectsUnknown(t *testing.T) {
	_, err := ValidateTools([]string{"code_interpreter"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code_interpreter")

	// 占位符先过滤再校验，不会被当成未知工具
	tools, err := ValidateTools([]string{"", "file_search", "[]"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file_search"}, tools)
}

func TestValidateEffort(t *testing.T) {
	effort, err := ValidateEffort("")
	require.NoError(t, err)
	assert.Equal(t, EffortMedium, effort)

	for _, v := range []string{EffortLow, EffortMedium, EffortHigh} {
		effort, err = ValidateEffort(v)
		require.NoError(t, err)
		assert.Equal(t, v, effort)
	}

	_, err = ValidateEffort("extreme")
	require.Error(t, err)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, IsReasoningModel("o3-mini"))
	assert.True(t, IsReasoningModel("o1"))
	assert.False(t, IsReasoningModel("gpt-4o"))
}

func TestSameTools(t *testing.T) {
	assert.True(t, SameTools([]string{"file_search"}, []string{"file_search"}))
	assert.False(t, SameTools([]string{"file_search"}, nil))
	assert.True(t, SameTools(nil, []string{}))
}
