package viewstate

import (
	"slices"
	"strings"

	"github.com/nateso/toy-dash-application/internal/model"
)

// Catalog 已知的筛选取值
type Catalog interface {
	Countries() []string
	Topics() []string
}

// SelectionResolver 事件解析
type SelectionResolver interface {
	Resolve(event *model.Event) model.Selection
}

// Reducer 视图状态归约器
// Reduce 是纯函数：同样的输入总是得到相等的输出，不会失败
type Reducer struct {
	resolver  SelectionResolver
	countries map[string]struct{}
	topics    map[string]struct{}
}

// NewReducer 创建归约器
func NewReducer(resolver SelectionResolver, catalog Catalog) *Reducer {
	r := &Reducer{
		resolver:  resolver,
		countries: make(map[string]struct{}),
		topics:    make(map[string]struct{}),
	}
	for _, c := range catalog.Countries() {
		r.countries[c] = struct{}{}
	}
	for _, t := range catalog.Topics() {
		r.topics[t] = struct{}{}
	}
	return r
}

// Reduce 由上一状态、交互事件与控件取值推导新的视图状态
// 有点击事件时选中对象整体替换；event 为 nil 表示仅控件变化，沿用上一状态的选中对象
// 控件未提交（空值）时沿用上一状态的取值
func (r *Reducer) Reduce(prev model.ViewState, event *model.Event, inputs model.UIInputs) model.ViewState {
	sel := normalizeSelection(prev.Selection)
	if event != nil {
		sel = r.resolver.Resolve(event)
	}

	country := prev.Filters.Country
	if inputs.Country != "" {
		country = inputs.Country
	}
	topics := prev.Filters.Topics
	if inputs.Topics != nil {
		topics = inputs.Topics
	}
	indicator := string(prev.Filters.PovertyIndicator)
	if inputs.PovertyIndicator != "" {
		indicator = inputs.PovertyIndicator
	}
	metric := string(prev.ProgressMetric)
	if inputs.ProgressMetric != "" {
		metric = inputs.ProgressMetric
	}

	return model.ViewState{
		Selection: sel,
		Tabs:      tabsFor(sel),
		Filters: model.Filters{
			Country:          r.normalizeCountry(country),
			Topics:           r.normalizeTopics(topics),
			PovertyIndicator: normalizeIndicator(indicator),
		},
		ProgressMetric: normalizeMetric(metric),
	}
}

// tabsFor 只有选中项目才填充详情标签页，分区点击不算
func tabsFor(sel model.Selection) model.TabsState {
	if sel.Kind == model.SelectionProject {
		return model.TabsPopulated
	}
	return model.TabsPlaceholder
}

// normalizeSelection 回传的选中对象不合法时视为未选中
func normalizeSelection(sel model.Selection) model.Selection {
	sel.EntityID = strings.TrimSpace(sel.EntityID)
	switch sel.Kind {
	case model.SelectionProject, model.SelectionRegion:
		if sel.EntityID != "" {
			return sel
		}
	}
	return model.NoSelection()
}

func (r *Reducer) normalizeCountry(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if _, ok := r.countries[c]; ok {
		return c
	}
	return model.FilterAll
}

// normalizeTopics 去掉未知主题，排序去重；结果为空或包含 all 时不过滤
func (r *Reducer) normalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if strings.EqualFold(t, model.FilterAll) {
			return []string{model.FilterAll}
		}
		if _, ok := r.topics[t]; ok {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{model.FilterAll}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func normalizeIndicator(s string) model.PovertyIndicator {
	if v, ok := model.ParsePovertyIndicator(s); ok {
		return v
	}
	return model.PovertyNone
}

func normalizeMetric(s string) model.ProgressMetric {
	if v, ok := model.ParseProgressMetric(s); ok {
		return v
	}
	return model.MetricDisbursement
}
