package model

import "time"

// ContentState 内容载荷状态
type ContentState string

const (
	ContentPlaceholder ContentState = "placeholder"
	ContentPopulated   ContentState = "populated"
	ContentUnavailable ContentState = "unavailable" // 选中项目的数据缺失
)

// 标签页标题
const (
	TabDescription  = "Project description"
	TabBeforeAfter  = "Before-After story"
	TabTestimonials = "Testimonials"
	TabProgress     = "Project Progress"
)

// TabTitles 详情标签页（按显示顺序）
func TabTitles() []DropdownOption {
	return []DropdownOption{
		{Label: TabDescription, Value: "description"},
		{Label: TabBeforeAfter, Value: "before_after"},
		{Label: TabTestimonials, Value: "testimonials"},
		{Label: TabProgress, Value: "progress"},
	}
}

// ImageRef 图片引用，Src 为 data URI 或 /api/images/:id
type ImageRef struct {
	AssetID string `json:"assetId"`
	Src     string `json:"src"`
}

// DescriptionBlock 项目描述
type DescriptionBlock struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Image ImageRef `json:"image"`
}

// BeforeAfterBlock 前后对比
type BeforeAfterBlock struct {
	Before    ImageRef `json:"before"`
	After     ImageRef `json:"after"`
	Narrative string   `json:"narrative"`
}

// TestimonialBlock 证言
type TestimonialBlock struct {
	ID    string   `json:"id"`
	Image ImageRef `json:"image"`
	Text  string   `json:"text"`
}

// ProgressPoint 进度序列中的一个点
type ProgressPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Total float64   `json:"total"` // 截至该点的累计值
}

// ProgressSeries 进度图数据
type ProgressSeries struct {
	ProjectID string          `json:"projectId"`
	Metric    ProgressMetric  `json:"metric"`
	XLabel    string          `json:"xLabel"`
	YLabel    string          `json:"yLabel"`
	Points    []ProgressPoint `json:"points"`
	Goal      float64         `json:"goal"`
	GoalLabel string          `json:"goalLabel"`
}

// DropdownOption 下拉选项
type DropdownOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Placeholder 未选中项目时的提示文案
type Placeholder struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// DefaultPlaceholder 默认提示文案
var DefaultPlaceholder = Placeholder{
	Title:   "No project selected",
	Message: "Please select a project on the map to obtain more information on the projects",
}

// MapCenter 地图中心
type MapCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BaseLayer 底图
type BaseLayer struct {
	Style  string    `json:"style"`
	Center MapCenter `json:"center"`
	Zoom   float64   `json:"zoom"`
}

// ChoroplethFeature 分级着色中的一个分区
type ChoroplethFeature struct {
	RegionID   string   `json:"regionId"`
	Value      float64  `json:"value"`
	Geometry   Geometry `json:"geometry"`
	CustomData []any    `json:"customdata"` // [subnational_name, mpi, hr_poor, country_code]
}

// ChoroplethLayer 贫困指标分级着色图层
type ChoroplethLayer struct {
	ColorField PovertyIndicator    `json:"colorField"`
	Legend     string              `json:"legend"`
	Features   []ChoroplethFeature `json:"features"`
}

// Marker 项目标记点
type Marker struct {
	ProjectID  string  `json:"projectId"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	HoverName  string  `json:"hoverName"`
	CustomData []any   `json:"customdata"` // [project_id, name, location, funding_label, start, end]
}

// MapLayers 地图图层集合
type MapLayers struct {
	Base       BaseLayer        `json:"base"`
	Choropleth *ChoroplethLayer `json:"choropleth,omitempty"`
	Markers    []Marker         `json:"markers,omitempty"`
}

// ContentPayload 交给渲染端的全部内容
type ContentPayload struct {
	State           ContentState       `json:"state"`
	Placeholder     *Placeholder       `json:"placeholder,omitempty"`
	Error           string             `json:"error,omitempty"`
	Description     *DescriptionBlock  `json:"description,omitempty"`
	BeforeAfter     *BeforeAfterBlock  `json:"beforeAfter,omitempty"`
	Testimonials    []TestimonialBlock `json:"testimonials,omitempty"`
	Progress        *ProgressSeries    `json:"progress,omitempty"`
	Map             MapLayers          `json:"map"`
	DropdownOptions []DropdownOption   `json:"dropdownOptions,omitempty"`
}
