package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/service/content"
)

// InteractRequest 一次交互；ViewState 由客户端回传，为空时使用初始状态
type InteractRequest struct {
	ViewState *model.ViewState `json:"viewState"`
	Event     *model.Event     `json:"event"`
	Inputs    model.UIInputs   `json:"inputs"`
}

// InteractResponse 交互结果
type InteractResponse struct {
	ViewState model.ViewState      `json:"viewState"`
	Content   model.ContentPayload `json:"content"`
}

// Interact 解析事件、归约视图状态并组装内容
// POST /api/interact
func (h *Handler) Interact(c *gin.Context) {
	var req InteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	prev := model.DefaultViewState()
	if req.ViewState != nil {
		prev = *req.ViewState
	}

	vs := h.reducer.Reduce(prev, req.Event, req.Inputs)
	payload, err := h.assembler.Assemble(vs)
	if err != nil {
		var ue *content.UnknownEntityError
		if !errors.As(err, &ue) {
			h.log.WithError(err).Error("assemble content failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "assemble content failed"})
			return
		}
		h.log.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"kind":       ue.Kind,
			"id":         ue.ID,
			"selection":  vs.Selection.EntityID,
		}).Warn("selected project data unavailable")
		payload = content.Unavailable(payload.Map, err)
	}

	c.JSON(http.StatusOK, InteractResponse{ViewState: vs, Content: payload})
}
