package selection

import (
	"strconv"
	"strings"

	"github.com/nateso/toy-dash-application/internal/model"
)

// Resolver 从地图点击事件中解析选中对象
// 纯函数，不会失败：任何无法识别的载荷都降级为未选中
type Resolver struct {
	regionSentinel string
}

// NewResolver 创建解析器；regionSentinel 为分区载荷中携带的国家代码
func NewResolver(regionSentinel string) *Resolver {
	return &Resolver{regionSentinel: strings.TrimSpace(regionSentinel)}
}

// Resolve 解析事件，只看第一个点
func (r *Resolver) Resolve(event *model.Event) model.Selection {
	if event == nil || len(event.Points) == 0 {
		return model.NoSelection()
	}

	payload := event.Points[0].CustomData
	if len(payload) == 0 {
		return model.NoSelection()
	}

	id, ok := scalar(payload[0])
	if !ok || id == "" {
		return model.NoSelection()
	}

	if r.isRegion(payload) {
		return model.Selection{Kind: model.SelectionRegion, EntityID: id}
	}
	return model.Selection{Kind: model.SelectionProject, EntityID: id}
}

// isRegion 载荷中任一字段等于分区标记即视为分区点击
func (r *Resolver) isRegion(payload []any) bool {
	if r.regionSentinel == "" {
		return false
	}
	for _, v := range payload {
		if s, ok := scalar(v); ok && s == r.regionSentinel {
			return true
		}
	}
	return false
}

// scalar 将 JSON 标量转为字符串；对象、数组、null 不是合法标识
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}
