package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/parser"
)

// OptionsResponse 筛选控件的可选项
type OptionsResponse struct {
	Countries         []model.DropdownOption `json:"countries"`
	Topics            []model.DropdownOption `json:"topics"`
	PovertyIndicators []model.DropdownOption `json:"povertyIndicators"`
	ProgressMetrics   []model.DropdownOption `json:"progressMetrics"`
	Tabs              []model.DropdownOption `json:"tabs"`
	Defaults          model.ViewState        `json:"defaults"`
}

var titleCaser = cases.Title(language.English)

// topicLabel "clean_water" -> "Clean Water"
func topicLabel(topic string) string {
	return titleCaser.String(strings.ReplaceAll(topic, "_", " "))
}

// GetOptions 获取筛选选项
// GET /api/options
func (h *Handler) GetOptions(c *gin.Context) {
	resp := OptionsResponse{
		Countries: []model.DropdownOption{{Label: "All countries", Value: model.FilterAll}},
		Topics:    []model.DropdownOption{{Label: "All topics", Value: model.FilterAll}},
		Tabs:      model.TabTitles(),
		Defaults:  model.DefaultViewState(),
	}
	for _, cc := range h.store.Countries() {
		resp.Countries = append(resp.Countries, model.DropdownOption{Label: cc, Value: cc})
	}
	for _, t := range h.store.Topics() {
		resp.Topics = append(resp.Topics, model.DropdownOption{Label: topicLabel(t), Value: t})
	}
	for _, p := range model.PovertyIndicators {
		resp.PovertyIndicators = append(resp.PovertyIndicators, model.DropdownOption{Label: p.Label(), Value: string(p)})
	}
	// 指标 1/2 的名称随项目变化，选中项目后由 interact 返回
	for _, m := range model.ProgressMetrics {
		resp.ProgressMetrics = append(resp.ProgressMetrics, model.DropdownOption{Label: m.AxisLabel("Indicator 1", "Indicator 2"), Value: string(m)})
	}

	c.JSON(http.StatusOK, resp)
}

// GetMap 按筛选条件获取地图图层
// GET /api/map?country=KHM&topic=education&topic=health&indicator=mpi_region
func (h *Handler) GetMap(c *gin.Context) {
	inputs := model.UIInputs{
		Country:          c.Query("country"),
		PovertyIndicator: c.Query("indicator"),
	}
	if topics, ok := c.GetQueryArray("topic"); ok {
		inputs.Topics = topics
	}

	vs := h.reducer.Reduce(model.DefaultViewState(), nil, inputs)
	c.JSON(http.StatusOK, gin.H{
		"filters": vs.Filters,
		"map":     h.assembler.AssembleMap(vs.Filters),
	})
}

// GetRegions 分区边界及贫困指标（GeoJSON）
// GET /api/regions
func (h *Handler) GetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, parser.RegionsToFeatureCollection(h.store.Regions()))
}
