package back

import (
	"net/http"

	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Result 统一返回入口
func Result(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}

	// 判断是否为自定义错误
	if e, ok := err.(*xerr.CodeError); ok {
		Error(c, e.Code, e.Message)
		return
	}

	// 默认为系统错误
	Error(c, xerr.ErrServerError.Code, xerr.ErrServerError.Message)
}

// Success 成功返回
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    xerr.OK,
		Message: "Success",
		Data:    data,
	})
}

// Status 指定 HTTP 状态码的成功返回（如 201 Created、204 No Content）
func Status(c *gin.Context, status int, data interface{}) {
	if data == nil && status == http.StatusNoContent {
		c.Status(status)
		return
	}
	c.JSON(status, Response{
		Code:    status,
		Message: "Success",
		Data:    data,
	})
}

// Error 错误返回。错误码同时作为 HTTP 状态码写出
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}
