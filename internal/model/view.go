package model

import "slices"

// SelectionKind 选中对象类型
type SelectionKind string

const (
	SelectionNone    SelectionKind = "none"
	SelectionProject SelectionKind = "project"
	SelectionRegion  SelectionKind = "region"
)

// Selection 当前选中对象，每次交互整体替换
type Selection struct {
	Kind     SelectionKind `json:"kind"`
	EntityID string        `json:"entityId,omitempty"`
}

// NoSelection 未选中
func NoSelection() Selection {
	return Selection{Kind: SelectionNone}
}

// Event 地图交互事件（点击）
type Event struct {
	Points []Point `json:"points"`
}

// Point 被点击的地图点，CustomData 字段顺序即 IdentifierPayload 顺序
type Point struct {
	CustomData []any `json:"customdata"`
}

// FilterAll 不过滤
const FilterAll = "all"

// PovertyIndicator 地图分级着色所用的贫困指标
type PovertyIndicator string

const (
	PovertyNone      PovertyIndicator = "no_indicator"
	PovertyMPI       PovertyIndicator = "mpi_region"
	PovertyHeadcount PovertyIndicator = "hr_poor"
)

// PovertyIndicators 全部可选贫困指标（下拉框顺序）
var PovertyIndicators = []PovertyIndicator{PovertyNone, PovertyMPI, PovertyHeadcount}

var povertyLabels = map[PovertyIndicator]string{
	PovertyNone:      "No indicator",
	PovertyMPI:       "Multidimensional poverty index",
	PovertyHeadcount: "Multidimensional poverty headcount ratio",
}

var povertyLegend = map[PovertyIndicator]string{
	PovertyMPI:       "MPI",
	PovertyHeadcount: "% Poor",
}

// ParsePovertyIndicator 解析贫困指标，未知值返回 false
func ParsePovertyIndicator(s string) (PovertyIndicator, bool) {
	v := PovertyIndicator(s)
	_, ok := povertyLabels[v]
	return v, ok
}

// Label 下拉框文案
func (p PovertyIndicator) Label() string { return povertyLabels[p] }

// Legend 图例文案
func (p PovertyIndicator) Legend() string { return povertyLegend[p] }

// ProgressMetric 进度图指标
type ProgressMetric string

const (
	MetricDisbursement ProgressMetric = "disbursement"
	MetricIndicator1   ProgressMetric = "indicator_1"
	MetricIndicator2   ProgressMetric = "indicator_2"
)

// ProgressMetrics 全部进度指标（下拉框顺序）
var ProgressMetrics = []ProgressMetric{MetricDisbursement, MetricIndicator1, MetricIndicator2}

// DisbursementLabel 拨款指标固定文案
const DisbursementLabel = "Disbursements"

// ParseProgressMetric 解析进度指标，未知值返回 false
func ParseProgressMetric(s string) (ProgressMetric, bool) {
	v := ProgressMetric(s)
	return v, slices.Contains(ProgressMetrics, v)
}

// AxisLabel 进度图纵轴文案；指标 1/2 的名称随项目变化
func (m ProgressMetric) AxisLabel(indicator1Label, indicator2Label string) string {
	labels := map[ProgressMetric]string{
		MetricDisbursement: DisbursementLabel,
		MetricIndicator1:   indicator1Label,
		MetricIndicator2:   indicator2Label,
	}
	if l, ok := labels[m]; ok {
		return l
	}
	return DisbursementLabel
}

// TabsState 详情标签页状态
type TabsState string

const (
	TabsPlaceholder TabsState = "placeholder"
	TabsPopulated   TabsState = "populated"
)

// Filters 地图筛选条件
type Filters struct {
	Country          string           `json:"country"`
	Topics           []string         `json:"topics"` // 有序去重；["all"] 表示不过滤
	PovertyIndicator PovertyIndicator `json:"povertyIndicator"`
}

// AllTopics 主题不过滤
func (f Filters) AllTopics() bool {
	return len(f.Topics) == 0 || slices.Contains(f.Topics, FilterAll)
}

// Matches 项目是否通过国家与主题筛选
func (f Filters) Matches(p Project) bool {
	if f.Country != "" && f.Country != FilterAll && p.Country != f.Country {
		return false
	}
	if f.AllTopics() {
		return true
	}
	return slices.Contains(f.Topics, p.Topic)
}

// ViewState 由一次交互推导出的完整视图状态（不可变值）
type ViewState struct {
	Selection      Selection      `json:"selection"`
	Tabs           TabsState      `json:"tabs"`
	Filters        Filters        `json:"filters"`
	ProgressMetric ProgressMetric `json:"progressMetric"`
}

// DefaultViewState 初始视图状态
func DefaultViewState() ViewState {
	return ViewState{
		Selection: NoSelection(),
		Tabs:      TabsPlaceholder,
		Filters: Filters{
			Country:          FilterAll,
			Topics:           []string{FilterAll},
			PovertyIndicator: PovertyNone,
		},
		ProgressMetric: MetricDisbursement,
	}
}

// UIInputs 前端控件取值，空值表示该控件本次未提交
type UIInputs struct {
	Country          string   `json:"country"`
	Topics           []string `json:"topics"`
	PovertyIndicator string   `json:"povertyIndicator"`
	ProgressMetric   string   `json:"progressMetric"`
}
