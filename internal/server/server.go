package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "github.com/nateso/toy-dash-application/internal/api/v1"
	"github.com/nateso/toy-dash-application/internal/config"
)

//go:embed all:dist
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	v1     *v1.Handler
	log    *logrus.Logger
	http   *http.Server
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, handler *v1.Handler, log *logrus.Logger) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log), corsMiddleware())

	s := &Server{
		router: router,
		v1:     handler,
		log:    log,
	}
	s.setupRoutes(cfg.Server)
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(cfg config.ServerConfig) {
	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api, rateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	switch {
	case cfg.DevMode && cfg.DevServer != "":
		// 开发模式：跳转到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			if isAPIPath(c) {
				apiNotFound(c)
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, strings.TrimRight(cfg.DevServer, "/")+c.Request.URL.Path)
		})
	case cfg.StaticDir != "":
		s.serveSPA(os.DirFS(cfg.StaticDir))
	default:
		sub, _ := fs.Sub(staticFiles, "dist")
		s.serveSPA(sub)
	}
}

// serveSPA 静态资源 + SPA 路由 fallback
func (s *Server) serveSPA(root fs.FS) {
	fileServer := http.FileServer(http.FS(root))
	s.router.NoRoute(func(c *gin.Context) {
		if isAPIPath(c) {
			apiNotFound(c)
			return
		}
		name := strings.TrimPrefix(filepath.ToSlash(c.Request.URL.Path), "/")
		if name != "" {
			if st, err := fs.Stat(root, name); err == nil && !st.IsDir() {
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}
		data, err := fs.ReadFile(root, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}

func isAPIPath(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func apiNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down server")
		return s.http.Shutdown(shutdownCtx)
	}
}
