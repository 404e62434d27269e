package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nateso/toy-dash-application/internal/store"
)

// DemoNotice 页面顶部提示
const DemoNotice = "This is an exemplary toy dashboard. The Data is fictional and does not represent any real-world scenario."

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool        `json:"initialized"` // 是否有可展示的项目
	CountryCode string      `json:"countryCode"`
	Source      string      `json:"source"`
	LoadedAt    string      `json:"loadedAt"`
	Stats       store.Stats `json:"stats"`
	Problems    []string    `json:"problems,omitempty"` // 数据完整性问题
	Notice      string      `json:"notice"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	stats := h.store.Stats()

	problems := make([]string, 0, len(h.problems))
	for _, p := range h.problems {
		problems = append(problems, p.String())
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized: stats.Projects > 0,
		CountryCode: h.store.CountryCode(),
		Source:      h.source,
		LoadedAt:    h.loadedAt.Format("2006-01-02 15:04:05"),
		Stats:       stats,
		Problems:    problems,
		Notice:      DemoNotice,
	})
}
