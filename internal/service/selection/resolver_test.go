package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nateso/toy-dash-application/internal/model"
)

func click(payload ...any) *model.Event {
	return &model.Event{Points: []model.Point{{CustomData: payload}}}
}

func TestResolve_NoPoints(t *testing.T) {
	r := NewResolver("KHM")

	assert.Equal(t, model.NoSelection(), r.Resolve(nil))
	assert.Equal(t, model.NoSelection(), r.Resolve(&model.Event{}))
	assert.Equal(t, model.NoSelection(), r.Resolve(&model.Event{Points: []model.Point{}}))
}

func TestResolve_Project(t *testing.T) {
	r := NewResolver("KHM")

	got := r.Resolve(click("P7", "School Kampot", "Kampot", "1.5 Mio. USD", "2020-01-01", "2022-12-31"))
	assert.Equal(t, model.Selection{Kind: model.SelectionProject, EntityID: "P7"}, got)
}

func TestResolve_RegionSentinel(t *testing.T) {
	r := NewResolver("KHM")

	got := r.Resolve(click("Kampot", 0.17, 37.2, "KHM"))
	assert.Equal(t, model.Selection{Kind: model.SelectionRegion, EntityID: "Kampot"}, got)

	// 标记出现在任意位置都算分区
	got = r.Resolve(click("Kep", "KHM", 0.1))
	assert.Equal(t, model.SelectionRegion, got.Kind)
}

func TestResolve_OnlyFirstPoint(t *testing.T) {
	r := NewResolver("KHM")

	ev := &model.Event{Points: []model.Point{
		{CustomData: []any{"P1", "A"}},
		{CustomData: []any{"Kampot", "KHM"}},
	}}
	assert.Equal(t, model.SelectionProject, r.Resolve(ev).Kind)
}

func TestResolve_Malformed(t *testing.T) {
	r := NewResolver("KHM")

	cases := map[string]*model.Event{
		"empty payload":    click(),
		"blank id":         click("  ", "name"),
		"nil id":           click(nil, "name"),
		"object id":        click(map[string]any{"id": "P1"}, "name"),
		"array id":         click([]any{"P1"}),
		"bool id":          click(true),
		"nil payload list": {Points: []model.Point{{}}},
	}
	for name, ev := range cases {
		assert.Equal(t, model.NoSelection(), r.Resolve(ev), name)
	}
}

func TestResolve_NumericID(t *testing.T) {
	r := NewResolver("KHM")

	got := r.Resolve(click(float64(42), "Well"))
	assert.Equal(t, model.Selection{Kind: model.SelectionProject, EntityID: "42"}, got)
}

func TestResolve_NoSentinelConfigured(t *testing.T) {
	r := NewResolver("")

	got := r.Resolve(click("Kampot", "KHM"))
	assert.Equal(t, model.SelectionProject, got.Kind)
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver("KHM")
	ev := click("P1", "x")
	assert.Equal(t, r.Resolve(ev), r.Resolve(ev))
}
