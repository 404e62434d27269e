package content

import (
	"github.com/nateso/toy-dash-application/internal/model"
)

// AssembleMap 组装地图图层：底图始终存在，选择贫困指标时叠加分级着色，项目标记按筛选条件过滤
func (a *Assembler) AssembleMap(filters model.Filters) model.MapLayers {
	layers := model.MapLayers{Base: a.cfg.Base}

	if filters.PovertyIndicator != model.PovertyNone {
		if layer := a.choropleth(filters.PovertyIndicator); layer != nil {
			layers.Choropleth = layer
		}
	}

	for _, p := range a.store.ListProjects(filters.Matches) {
		layers.Markers = append(layers.Markers, marker(p))
	}
	return layers
}

func (a *Assembler) choropleth(indicator model.PovertyIndicator) *model.ChoroplethLayer {
	regions := a.store.Regions()
	layer := &model.ChoroplethLayer{
		ColorField: indicator,
		Legend:     indicator.Legend(),
		Features:   make([]model.ChoroplethFeature, 0, len(regions)),
	}
	for _, r := range regions {
		v, ok := r.Value(indicator)
		if !ok {
			return nil
		}
		layer.Features = append(layer.Features, model.ChoroplethFeature{
			RegionID: r.ID,
			Value:    v,
			Geometry: r.Geometry,
			// 末位国家代码是分区点击标记
			CustomData: []any{r.SubnationalName, r.MPIScore, r.PovertyHeadcountRatio, r.CountryCode},
		})
	}
	return layer
}

// marker customdata 顺序固定：[project_id, name, location, funding_label, start, end]
func marker(p model.Project) model.Marker {
	return model.Marker{
		ProjectID:  p.ID,
		Lat:        p.Lat,
		Lon:        p.Lon,
		HoverName:  p.Name,
		CustomData: []any{p.ID, p.Name, p.Location, p.FundingLabel(), p.StartDate, p.EndDate},
	}
}
