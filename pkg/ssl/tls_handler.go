package ssl

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// TlsHandler 将 HTTP 请求重定向到 HTTPS。重定向由 secure 库直接写入响应，
// 出错时只需中止当前处理链，不能再调用 c.Abort() 重复写响应
func TlsHandler(host string, port int) gin.HandlerFunc {
	return func(c *gin.Context) {
		secureMiddleware := secure.New(secure.Options{
			SSLRedirect: true,
			SSLHost:     host + ":" + strconv.Itoa(port),
		})
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			return
		}
		c.Next()
	}
}
