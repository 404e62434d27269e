package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nateso/toy-dash-application/internal/exporter"
	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProgressResponse 进度序列及该项目的指标选项
type ProgressResponse struct {
	Series  *model.ProgressSeries  `json:"series"`
	Options []model.DropdownOption `json:"options"`
}

// metricParam 未知指标按拨款处理
func metricParam(c *gin.Context) model.ProgressMetric {
	if m, ok := model.ParseProgressMetric(c.Query("metric")); ok {
		return m
	}
	return model.MetricDisbursement
}

func respondNotFoundOr500(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// GetProgress 获取项目进度序列
// GET /api/projects/:id/progress?metric=indicator_1
func (h *Handler) GetProgress(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.Project(id); err != nil {
		respondNotFoundOr500(c, err)
		return
	}

	series, err := h.assembler.ProgressSeries(id, metricParam(c))
	if err != nil {
		respondNotFoundOr500(c, err)
		return
	}
	options, err := h.assembler.MetricOptions(id)
	if err != nil {
		respondNotFoundOr500(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressResponse{Series: series, Options: options})
}

// exportToFile 生成导出文件并登记下载令牌
func (h *Handler) exportToFile(opts exporter.ExportOptions, progress func(exporter.ProgressEvent)) (token string, err error) {
	file, err := h.exporter.Export(opts, progress)
	if err != nil {
		return "", err
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "toydash_export_*.xlsx")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer tmp.Close()

	if err := file.Write(tmp); err != nil {
		removeQuietly(tmp.Name())
		return "", fmt.Errorf("write export file: %w", err)
	}
	return h.downloads.put(tmp.Name(), opts.FileName(), h.ttl), nil
}

// ExportProgress 导出项目进度，返回一次性下载地址
// POST /api/projects/:id/progress/export?metric=disbursement
func (h *Handler) ExportProgress(c *gin.Context) {
	opts := exporter.ExportOptions{ProjectID: c.Param("id"), Metric: metricParam(c)}

	token, err := h.exportToFile(opts, nil)
	if err != nil {
		h.log.WithError(err).WithField("project", opts.ProjectID).Warn("export progress failed")
		respondNotFoundOr500(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"downloadUrl": "/api/export/download/" + token,
		"fileName":    opts.FileName(),
	})
}

type exportProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportProgressStream 导出项目进度（SSE 进度 + 完成后提供下载地址）
// POST /api/projects/:id/progress/export/stream
func (h *Handler) ExportProgressStream(c *gin.Context) {
	opts := exporter.ExportOptions{ProjectID: c.Param("id"), Metric: metricParam(c)}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event exportProgressEvent) {
		event.Timestamp = time.Now()
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(exportProgressEvent{Type: "start", Message: "export started", Data: opts})

	lastPercent := -1
	token, err := h.exportToFile(opts, func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{Type: "progress", Message: p.Stage, Data: p})
	})
	if err != nil {
		send(exportProgressEvent{Type: "error", Message: "export failed: " + err.Error(), Data: map[string]any{}})
		return
	}

	send(exportProgressEvent{
		Type:    "done",
		Message: "export finished",
		Data: map[string]any{
			"percent":     100,
			"token":       token,
			"downloadUrl": "/api/export/download/" + token,
		},
	})
}

// DownloadExport 下载导出文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}
	defer removeQuietly(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export file missing"})
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.FileAttachment(item.filePath, item.fileName)
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
