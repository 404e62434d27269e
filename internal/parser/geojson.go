package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nateso/toy-dash-application/internal/model"
)

// ErrJoinMismatch 贫困指标与边界几何体无法一一对应
var ErrJoinMismatch = errors.New("region join mismatch")

// Feature GeoJSON 要素
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   model.Geometry `json:"geometry"`
}

// FeatureCollection GeoJSON 要素集合
type FeatureCollection struct {
	Type     string    `json:"type"` // "FeatureCollection"
	Features []Feature `json:"features"`
}

// ReadFeatureCollection 读取 GeoJSON
func ReadFeatureCollection(r io.Reader) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode geojson: unexpected type %q", fc.Type)
	}
	return &fc, nil
}

// ReadFeatureCollectionFile 读取 GeoJSON 文件
func ReadFeatureCollectionFile(path string) (*FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFeatureCollection(f)
}

// Property 取要素属性的字符串值
func (f Feature) Property(key string) string {
	v, ok := f.Properties[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// JoinOptions 关联选项
type JoinOptions struct {
	JoinProperty string // 与 subnational_region 对应的要素属性，如 NAME_1
	IDProperty   string // 分区 ID 属性，如 GID_1；缺省时使用分区名
}

func joinKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// JoinRegions 通过显式键关联贫困指标与几何体，结果按要素顺序输出
// 任何一方存在未匹配或重复的键都视为数据完整性错误
func JoinRegions(rows []PovertyRow, fc *FeatureCollection, opts JoinOptions) ([]model.Region, error) {
	if opts.JoinProperty == "" {
		return nil, fmt.Errorf("%w: join property is required", ErrJoinMismatch)
	}

	byName := make(map[string]PovertyRow, len(rows))
	for _, r := range rows {
		k := joinKey(r.SubnationalName)
		if _, dup := byName[k]; dup {
			return nil, fmt.Errorf("%w: duplicate poverty row %q", ErrJoinMismatch, r.SubnationalName)
		}
		byName[k] = r
	}

	used := make(map[string]bool, len(rows))
	regions := make([]model.Region, 0, len(fc.Features))
	var unmatchedFeatures []string
	for _, f := range fc.Features {
		name := f.Property(opts.JoinProperty)
		k := joinKey(name)
		r, ok := byName[k]
		if !ok || name == "" {
			unmatchedFeatures = append(unmatchedFeatures, name)
			continue
		}
		if used[k] {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrJoinMismatch, name)
		}
		used[k] = true

		id := f.Property(opts.IDProperty)
		if opts.IDProperty == "" || id == "" {
			id = r.SubnationalName
		}
		regions = append(regions, model.Region{
			ID:                    id,
			SubnationalName:       r.SubnationalName,
			CountryCode:           r.CountryCode,
			MPIScore:              r.MPIScore,
			PovertyHeadcountRatio: r.PovertyHeadcountRatio,
			SeverePovertyRatio:    r.SeverePovertyRatio,
			Geometry:              f.Geometry,
		})
	}

	var unmatchedRows []string
	for k, r := range byName {
		if !used[k] {
			unmatchedRows = append(unmatchedRows, r.SubnationalName)
		}
	}
	sort.Strings(unmatchedRows)

	if len(unmatchedFeatures) > 0 || len(unmatchedRows) > 0 {
		return nil, fmt.Errorf("%w: features without poverty row %q, poverty rows without feature %q",
			ErrJoinMismatch, unmatchedFeatures, unmatchedRows)
	}
	return regions, nil
}

// RegionsToFeatureCollection 把已关联的分区还原为 GeoJSON，属性名与贫困数据列一致
func RegionsToFeatureCollection(regions []model.Region) *FeatureCollection {
	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(regions)),
	}
	for _, r := range regions {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"region_id":          r.ID,
				"subnational_region": r.SubnationalName,
				"iso_country_code":   r.CountryCode,
				"mpi_region":         r.MPIScore,
				"hr_poor":            r.PovertyHeadcountRatio,
				"hr_severe_poverty":  r.SeverePovertyRatio,
			},
			Geometry: r.Geometry,
		})
	}
	return fc
}
