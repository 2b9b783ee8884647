package openaiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/config"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.openai.com/v1"

// openaiGateway 基于 go-openai 封装 Assistants v2 接口。
// 助手的创建与更新走原始 HTTP：go-openai 的 AssistantRequest 不支持
// reasoning_effort 字段，且自带 MarshalJSON 无法通过内嵌扩展
type openaiGateway struct {
	client     *openai.Client
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewOpenaiGateway 构造函数
func NewOpenaiGateway(conf *config.OpenaiConfig) repository.AssistantGateway {
	baseURL := strings.TrimRight(conf.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := time.Duration(conf.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientConfig := openai.DefaultConfig(conf.ApiKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}
	return &openaiGateway{
		client:     openai.NewClientWithConfig(clientConfig),
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     conf.ApiKey,
		baseURL:    baseURL,
	}
}

func (g *openaiGateway) UploadFile(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	file, err := g.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    name,
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		zlog.Error("upload file to provider failed", zap.String("name", name), zap.Error(err))
		return "", xerr.Remote("file upload failed")
	}
	return file.ID, nil
}

// RetrieveFileName 尽力取回文件名，远端查询失败时降级为空串
func (g *openaiGateway) RetrieveFileName(ctx context.Context, fileID string) (string, error) {
	file, err := g.client.GetFile(ctx, fileID)
	if err != nil {
		zlog.Warn("retrieve file metadata failed", zap.String("fileId", fileID), zap.Error(err))
		return "", nil
	}
	return file.FileName, nil
}

func (g *openaiGateway) CreateVectorStore(ctx context.Context, fileIDs []string) (string, error) {
	store, err := g.client.CreateVectorStore(ctx, openai.VectorStoreRequest{FileIDs: fileIDs})
	if err != nil {
		zlog.Error("create vector store failed", zap.Error(err))
		return "", xerr.Remote("vector store creation failed")
	}
	return store.ID, nil
}

func (g *openaiGateway) AttachVectorStoreFile(ctx context.Context, vectorStoreID, fileID string) error {
	_, err := g.client.CreateVectorStoreFile(ctx, vectorStoreID, openai.VectorStoreFileRequest{FileID: fileID})
	if err != nil {
		zlog.Error("attach vector store file failed",
			zap.String("vectorStoreId", vectorStoreID), zap.String("fileId", fileID), zap.Error(err))
		return xerr.Remote("vector store attach failed")
	}
	return nil
}

func (g *openaiGateway) DetachVectorStoreFile(ctx context.Context, vectorStoreID, fileID string) error {
	err := g.client.DeleteVectorStoreFile(ctx, vectorStoreID, fileID)
	if err != nil {
		zlog.Warn("detach vector store file failed",
			zap.String("vectorStoreId", vectorStoreID), zap.String("fileId", fileID), zap.Error(err))
		return xerr.Remote("vector store detach failed")
	}
	return nil
}

func (g *openaiGateway) ListVectorStoreFiles(ctx context.Context, vectorStoreID string) ([]string, error) {
	list, err := g.client.ListVectorStoreFiles(ctx, vectorStoreID, openai.Pagination{})
	if err != nil {
		zlog.Error("list vector store files failed", zap.String("vectorStoreId", vectorStoreID), zap.Error(err))
		return nil, xerr.Remote("vector store listing failed")
	}
	ids := make([]string, 0, len(list.VectorStoreFiles))
	for _, f := range list.VectorStoreFiles {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// assistantPayload 组装助手创建/更新请求体。
// 创建时非 reasoning 模型不携带 reasoning_effort；更新时该键恒在，
// 非 reasoning 模型显式置 null 以清掉远端残留值。更新时 tool_resources
// 同样恒在，无资源时下发空对象。温度参数一律不下发
func assistantPayload(spec repository.RemoteAssistantSpec, forUpdate bool) map[string]interface{} {
	payload := map[string]interface{}{
		"name":         spec.Name,
		"description":  spec.Description,
		"instructions": spec.Instructions,
		"model":        spec.Model,
	}

	tools := make([]openai.AssistantTool, 0, len(spec.Tools))
	toolResources := openai.AssistantToolResource{}
	hasResources := false
	for _, t := range spec.Tools {
		switch t {
		case entity.ToolFileSearch:
			tools = append(tools, openai.AssistantTool{Type: openai.AssistantToolTypeFileSearch})
			if len(spec.VectorStoreIds) > 0 {
				toolResources.FileSearch = &openai.AssistantToolFileSearch{VectorStoreIDs: spec.VectorStoreIds}
				hasResources = true
			}
		case entity.ToolCodeInterpreter:
			tools = append(tools, openai.AssistantTool{Type: openai.AssistantToolTypeCodeInterpreter})
			if len(spec.CodeFileIds) > 0 {
				toolResources.CodeInterpreter = &openai.AssistantToolCodeInterpreter{FileIDs: spec.CodeFileIds}
				hasResources = true
			}
		}
	}
	payload["tools"] = tools
	if hasResources {
		payload["tool_resources"] = toolResources
	} else if forUpdate {
		// 更新时恒带 tool_resources，清空工具后让远端丢弃残留的向量库挂载
		payload["tool_resources"] = openai.AssistantToolResource{}
	}

	if entity.IsReasoningModel(spec.Model) {
		payload["reasoning_effort"] = spec.ReasoningEffort
	} else if forUpdate {
		payload["reasoning_effort"] = nil
	}
	return payload
}

func (g *openaiGateway) CreateAssistant(ctx context.Context, spec repository.RemoteAssistantSpec) (string, error) {
	payload := assistantPayload(spec, false)
	var result struct {
		ID string `json:"id"`
	}
	if err := g.postJSON(ctx, g.baseURL+"/assistants", payload, &result); err != nil {
		zlog.Error("create remote assistant failed", zap.String("name", spec.Name), zap.Error(err))
		return "", xerr.Remote("assistant creation failed")
	}
	return result.ID, nil
}

func (g *openaiGateway) UpdateAssistant(ctx context.Context, remoteID string, spec repository.RemoteAssistantSpec) error {
	payload := assistantPayload(spec, true)
	if err := g.postJSON(ctx, g.baseURL+"/assistants/"+remoteID, payload, nil); err != nil {
		zlog.Error("update remote assistant failed", zap.String("remoteId", remoteID), zap.Error(err))
		return xerr.Remote("assistant update failed")
	}
	return nil
}

func (g *openaiGateway) DeleteAssistant(ctx context.Context, remoteID string) error {
	_, err := g.client.DeleteAssistant(ctx, remoteID)
	if err != nil {
		zlog.Warn("delete remote assistant failed", zap.String("remoteId", remoteID), zap.Error(err))
		return xerr.Remote("assistant deletion failed")
	}
	return nil
}

func (g *openaiGateway) CreateThread(ctx context.Context) (string, error) {
	thread, err := g.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		zlog.Error("create remote thread failed", zap.Error(err))
		return "", xerr.Remote("thread creation failed")
	}
	return thread.ID, nil
}

func (g *openaiGateway) DeleteThread(ctx context.Context, threadID string) error {
	_, err := g.client.DeleteThread(ctx, threadID)
	if err != nil {
		zlog.Warn("delete remote thread failed", zap.String("threadId", threadID), zap.Error(err))
		return xerr.Remote("thread deletion failed")
	}
	return nil
}

func (g *openaiGateway) AppendMessage(ctx context.Context, threadID, role, content string) error {
	_, err := g.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    role,
		Content: content,
	})
	if err != nil {
		zlog.Error("append remote message failed", zap.String("threadId", threadID), zap.Error(err))
		return xerr.Remote("message delivery failed")
	}
	return nil
}

func (g *openaiGateway) StartRun(ctx context.Context, threadID, assistantID string) (repository.RemoteRun, error) {
	run, err := g.client.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: assistantID})
	if err != nil {
		zlog.Error("start remote run failed", zap.String("threadId", threadID), zap.Error(err))
		return repository.RemoteRun{}, xerr.Remote("run creation failed")
	}
	return repository.RemoteRun{Id: run.ID, Status: string(run.Status)}, nil
}

func (g *openaiGateway) PollRun(ctx context.Context, threadID, runID string) (repository.RemoteRun, error) {
	run, err := g.client.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		zlog.Error("poll remote run failed", zap.String("runId", runID), zap.Error(err))
		return repository.RemoteRun{}, xerr.Remote("run polling failed")
	}
	return repository.RemoteRun{Id: run.ID, Status: string(run.Status)}, nil
}

// LatestMessage 取最近一条消息的第一段文本内容
func (g *openaiGateway) LatestMessage(ctx context.Context, threadID string) (string, error) {
	limit := 1
	order := "desc"
	msgs, err := g.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		zlog.Error("list remote messages failed", zap.String("threadId", threadID), zap.Error(err))
		return "", xerr.Remote("message retrieval failed")
	}
	if len(msgs.Messages) == 0 {
		return "", nil
	}
	for _, part := range msgs.Messages[0].Content {
		if part.Text != nil {
			return part.Text.Value, nil
		}
	}
	return "", nil
}

// postJSON 携带 Assistants v2 标头发送 JSON 请求，非 2xx 响应视为错误
func (g *openaiGateway) postJSON(ctx context.Context, url string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}
