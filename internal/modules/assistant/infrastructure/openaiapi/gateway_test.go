package openaiapi

import (
	"encoding/json"
	"testing"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalPayload(t *testing.T, spec repository.RemoteAssistantSpec, forUpdate bool) map[string]json.RawMessage {
	t.Helper()
	data, err := json.Marshal(assistantPayload(spec, forUpdate))
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestCreatePayloadOmitsEffortForNonReasoningModel(t *testing.T) {
	decoded := marshalPayload(t, repository.RemoteAssistantSpec{
		Name:            "helper",
		Model:           "gpt-4o",
		ReasoningEffort: "medium",
	}, false)

	_, present := decoded["reasoning_effort"]
	assert.False(t, present)
}

func TestCreatePayloadCarriesEffortForReasoningModel(t *testing.T) {
	decoded := marshalPayload(t, repository.RemoteAssistantSpec{
		Name:            "helper",
		Model:           "o3-mini",
		ReasoningEffort: "high",
	}, false)

	require.Contains(t, decoded, "reasoning_effort")
	assert.JSONEq(t, `"high"`, string(decoded["reasoning_effort"]))
}

func TestUpdatePayloadNullsEffortForNonReasoningModel(t *testing.T) {
	// 模型从 reasoning 系列切回普通系列时显式置 null，清掉远端残留值
	decoded := marshalPayload(t, repository.RemoteAssistantSpec{
		Name:            "helper",
		Model:           "gpt-4o",
		ReasoningEffort: "medium",
	}, true)

	require.Contains(t, decoded, "reasoning_effort")
	assert.Equal(t, "null", string(decoded["reasoning_effort"]))
}

func TestPayloadNeverCarriesTemperature(t *testing.T) {
	decoded := marshalPayload(t, repository.RemoteAssistantSpec{
		Name:  "helper",
		Model: "gpt-4o",
	}, true)

	_, present := decoded["temperature"]
	assert.False(t, present)
}

func TestPayloadToolsAndResources(t *testing.T) {
	decoded := marshalPayload(t, repository.RemoteAssistantSpec{
		Name:           "helper",
		Model:          "gpt-4o",
		Tools:          []string{"file_search"},
		VectorStoreIds: []string{"vs-1"},
	}, true)

	assert.JSONEq(t, `[{"type":"file_search"}]`, string(decoded["tools"]))
	require.Contains(t, decoded, "tool_resources")
	var resources struct {
		FileSearch struct {
			VectorStoreIDs []string `json:"vector_store_ids"`
		} `json:"file_search"`
	}
	require.NoError(t, json.Unmarshal(decoded["tool_resources"], &resources))
	assert.Equal(t, []string{"vs-1"}, resources.FileSearch.VectorStoreIDs)
}

func TestPayloadEmptyToolsListStaysExplicit(t *testing.T) {
	// 工具被清空时仍下发空列表和空 tool_resources，而不是省略字段
	decoded := marshalPayload(t, repository.RemoteAssistantSpec{
		Name:  "helper",
		Model: "gpt-4o",
	}, true)

	require.Contains(t, decoded, "tools")
	assert.JSONEq(t, `[]`, string(decoded["tools"]))
	require.Contains(t, decoded, "tool_resources")
	assert.JSONEq(t, `{}`, string(decoded["tool_resources"]))
}

func TestCreatePayloadOmitsEmptyToolResources(t *testing.T) {
	decoded := marshalPayload(t, repository.RemoteAssistantSpec{
		Name:  "helper",
		Model: "gpt-4o",
	}, false)

	_, present := decoded["tool_resources"]
	assert.False(t, present)
}
