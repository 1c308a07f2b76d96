package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecommerce/api"
	"ecommerce/config"
	"ecommerce/pkg/logger"
)

// App 应用程序
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	closers []func() error
}

// Run 阻塞直到 ctx 取消或服务异常退出，随后优雅关闭
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.close()
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return a.Shutdown()
}

// Shutdown 等待进行中的请求完成，超过 server.shutdown_timeout 后强制关闭
func (a *App) Shutdown() error {
	logger.Info("Shutting down server", zap.Duration("timeout", a.config.Server.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.close()
	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func (a *App) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}

// GetEngine 测试用
func (a *App) GetEngine() *gin.Engine {
	return a.router.GetEngine()
}
