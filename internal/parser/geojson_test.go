package parser

import (
	"errors"
	"strings"
	"testing"
)

const regionsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"GID_0": "KHM", "GID_1": "KHM.1_1", "NAME_1": "Kep"},
     "geometry": {"type": "Polygon", "coordinates": [[[104.3, 10.5], [104.4, 10.5], [104.3, 10.6], [104.3, 10.5]]]}},
    {"type": "Feature", "properties": {"GID_0": "KHM", "GID_1": "KHM.2_1", "NAME_1": "Kampot"},
     "geometry": {"type": "Polygon", "coordinates": [[[104.0, 10.6], [104.2, 10.6], [104.0, 10.8], [104.0, 10.6]]]}}
  ]
}`

func TestJoinRegions_ByExplicitKey(t *testing.T) {
	t.Parallel()

	fc, err := ReadFeatureCollection(strings.NewReader(regionsGeoJSON))
	if err != nil {
		t.Fatalf("ReadFeatureCollection: %v", err)
	}
	// 行顺序与要素顺序不一致，按名称关联
	rows := []PovertyRow{
		{CountryCode: "KHM", SubnationalName: "Kampot", MPIScore: 0.17, PovertyHeadcountRatio: 37.2},
		{CountryCode: "KHM", SubnationalName: "Kep", MPIScore: 0.12, PovertyHeadcountRatio: 27.9},
	}
	regions, err := JoinRegions(rows, fc, JoinOptions{JoinProperty: "NAME_1", IDProperty: "GID_1"})
	if err != nil {
		t.Fatalf("JoinRegions: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("unexpected region count: %d", len(regions))
	}
	if regions[0].ID != "KHM.1_1" || regions[0].SubnationalName != "Kep" || regions[0].MPIScore != 0.12 {
		t.Fatalf("unexpected first region: %+v", regions[0])
	}
	if regions[1].Geometry.Type != "Polygon" {
		t.Fatalf("geometry not carried: %+v", regions[1].Geometry)
	}
}

func TestJoinRegions_MismatchIsError(t *testing.T) {
	t.Parallel()

	fc, err := ReadFeatureCollection(strings.NewReader(regionsGeoJSON))
	if err != nil {
		t.Fatalf("ReadFeatureCollection: %v", err)
	}
	rows := []PovertyRow{
		{CountryCode: "KHM", SubnationalName: "Kampot"},
		{CountryCode: "KHM", SubnationalName: "Takeo"},
	}
	_, err = JoinRegions(rows, fc, JoinOptions{JoinProperty: "NAME_1"})
	if !errors.Is(err, ErrJoinMismatch) {
		t.Fatalf("expected ErrJoinMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "Takeo") || !strings.Contains(err.Error(), "Kep") {
		t.Fatalf("error should name both sides: %v", err)
	}
}

func TestReadFeatureCollection_WrongType(t *testing.T) {
	t.Parallel()

	if _, err := ReadFeatureCollection(strings.NewReader(`{"type":"Feature"}`)); err == nil {
		t.Fatalf("expected error for non-collection")
	}
}

func TestRegionsToFeatureCollection(t *testing.T) {
	t.Parallel()

	fc, err := ReadFeatureCollection(strings.NewReader(regionsGeoJSON))
	if err != nil {
		t.Fatalf("ReadFeatureCollection: %v", err)
	}
	rows := []PovertyRow{
		{CountryCode: "KHM", SubnationalName: "Kampot", MPIScore: 0.17},
		{CountryCode: "KHM", SubnationalName: "Kep", MPIScore: 0.12},
	}
	regions, err := JoinRegions(rows, fc, JoinOptions{JoinProperty: "NAME_1", IDProperty: "GID_1"})
	if err != nil {
		t.Fatalf("JoinRegions: %v", err)
	}

	out := RegionsToFeatureCollection(regions)
	if out.Type != "FeatureCollection" || len(out.Features) != 2 {
		t.Fatalf("unexpected collection: %+v", out)
	}
	if got := out.Features[1].Property("subnational_region"); got != "Kampot" {
		t.Fatalf("subnational_region = %q", got)
	}
	if got := out.Features[0].Property("region_id"); got != "KHM.1_1" {
		t.Fatalf("region_id = %q", got)
	}
}
