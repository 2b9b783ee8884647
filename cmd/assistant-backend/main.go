package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	https_server "github.com/phil-pk-hobbies/Assistant-Backend/api/http"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/config"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	// 2. 启动 HTTP 服务
	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		zlog.Info(fmt.Sprintf("服务器正在启动，监听地址: %s", addr))
		// 目前使用 HTTP 启动。如果需要 HTTPS，请配置证书并使用 GE.RunTLS
		if err := https_server.GE.Run(addr); err != nil {
			zlog.Fatal("服务器启动失败: " + err.Error())
			return
		}
	}()

	// 3. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	zlog.Info("正在关闭服务器...")

	zlog.Info("服务器已关闭")
}
