package xerr

import "fmt"

// CodeError 自定义错误结构
type CodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *CodeError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// New 创建新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg}
}

// 常用通用错误码
const (
	OK                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
)

// Validation 输入校验失败（非法工具名、非法模型、空消息内容等）
func Validation(msg string) *CodeError {
	return New(BadRequest, msg)
}

// Authorization 操作者权限不足
func Authorization(msg string) *CodeError {
	return New(Forbidden, msg)
}

// NotFoundErr 目标资源不存在。对完全无权限的用户同样返回该错误，避免暴露资源存在性
func NotFoundErr(msg string) *CodeError {
	return New(NotFound, msg)
}

// ConflictErr 持久层唯一约束冲突
func ConflictErr(msg string) *CodeError {
	return New(Conflict, msg)
}

// Remote 远端 AI 提供商调用失败
func Remote(msg string) *CodeError {
	return New(BadGateway, msg)
}

// 常用预定义错误
var (
	ErrSuccess     = New(OK, "Success")
	ErrServerError = New(InternalServerError, "系统错误，请联系工作人员")
	ErrParam       = New(BadRequest, "参数错误")
)
