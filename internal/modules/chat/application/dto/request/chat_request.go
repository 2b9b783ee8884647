package request

// ChatRequest 发起一轮对话
type ChatRequest struct {
	Content string `json:"content"`
}
