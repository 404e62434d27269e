package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nateso/toy-dash-application/internal/store"
)

// GetImage 获取图片原始数据
// GET /api/images/:id
func (h *Handler) GetImage(c *gin.Context) {
	img, err := h.store.Image(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
