package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nateso/toy-dash-application/internal/exporter"
	"github.com/nateso/toy-dash-application/internal/service/content"
	"github.com/nateso/toy-dash-application/internal/service/selection"
	"github.com/nateso/toy-dash-application/internal/service/viewstate"
	"github.com/nateso/toy-dash-application/internal/store"
)

// RequestIDKey gin 上下文中的请求 ID
const RequestIDKey = "request_id"

// Options 处理器依赖
type Options struct {
	Store        *store.MemoryStore
	Content      content.Config
	TemplatePath string        // 进度导出模板，可为空
	DownloadTTL  time.Duration // 导出下载链接有效期
	Source       string        // 数据来源描述（status 展示）
	Log          *logrus.Logger
}

// Handler V1 API 处理器
type Handler struct {
	store     *store.MemoryStore
	reducer   *viewstate.Reducer
	assembler *content.Assembler
	exporter  *exporter.Exporter
	downloads *exportDownloadStore
	ttl       time.Duration
	source    string
	loadedAt  time.Time
	problems  []store.Problem
	log       *logrus.Logger
}

// NewHandler 创建 V1 API 处理器
func NewHandler(opts Options) *Handler {
	ttl := opts.DownloadTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	resolver := selection.NewResolver(opts.Store.CountryCode())
	assembler := content.NewAssembler(opts.Store, opts.Content)
	return &Handler{
		store:     opts.Store,
		reducer:   viewstate.NewReducer(resolver, opts.Store),
		assembler: assembler,
		exporter:  exporter.NewExporter(assembler, opts.Store, opts.TemplatePath),
		downloads: newExportDownloadStore(),
		ttl:       ttl,
		source:    opts.Source,
		loadedAt:  time.Now(),
		problems:  opts.Store.Validate(),
		log:       log,
	}
}

// RegisterRoutes 注册 V1 API 路由；interact 为交互接口附加的中间件（限流）
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, interact ...gin.HandlerFunc) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/options", h.GetOptions)

	// 交互：事件 -> 视图状态 -> 内容
	router.POST("/interact", chain(interact, h.Interact)...)

	// 地图
	router.GET("/map", chain(interact, h.GetMap)...)
	router.GET("/regions", h.GetRegions)
	router.GET("/images/:id", h.GetImage)

	// 项目进度
	router.GET("/projects/:id/progress", h.GetProgress)
	router.POST("/projects/:id/progress/export", h.ExportProgress)
	router.POST("/projects/:id/progress/export/stream", h.ExportProgressStream)
	router.GET("/export/download/:token", h.DownloadExport)
}

func chain(middleware []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middleware)+1)
	out = append(out, middleware...)
	return append(out, handler)
}
