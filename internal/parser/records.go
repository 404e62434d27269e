package parser

import (
	"fmt"
	"strings"

	"github.com/nateso/toy-dash-application/internal/model"
)

func mapTable(t *Table, kind TableKind) (map[string]FieldMapping, error) {
	mappings, err := NewFieldMapper(kind).MapRequired(t.Header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	return mappings, nil
}

func rowErr(t *Table, i int, err error) error {
	return &RowError{Table: t.Name, Row: i + 2, Err: err}
}

// ParseProjects 解析项目表
func ParseProjects(t *Table) ([]model.Project, error) {
	mappings, err := mapTable(t, TableProjects)
	if err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(t.Rows))
	for i, cells := range t.Rows {
		r := row{cells: cells, mappings: mappings}
		p := model.Project{
			ID:                   r.get(FieldProjectID),
			Name:                 r.get(FieldName),
			Location:             r.get(FieldLocation),
			Country:              strings.ToUpper(r.get(FieldCountry)),
			Topic:                r.get(FieldTopic),
			StartDate:            r.get(FieldStart),
			EndDate:              r.get(FieldEnd),
			Description:          r.get(FieldDescription),
			BeforeAfterNarrative: r.get(FieldBeforeAfter),
		}
		if p.ID == "" {
			return nil, rowErr(t, i, fmt.Errorf("empty project_id"))
		}
		if p.FundingAmount, err = ParseFloat(r.get(FieldFunding)); err != nil {
			return nil, rowErr(t, i, err)
		}
		if p.Lat, err = ParseFloat(r.get(FieldLat)); err != nil {
			return nil, rowErr(t, i, err)
		}
		if p.Lon, err = ParseFloat(r.get(FieldLon)); err != nil {
			return nil, rowErr(t, i, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Description 单独维护的项目描述
type Description struct {
	ProjectID   string
	Description string
	BeforeAfter string
}

// ParseDescriptions 解析项目描述表
func ParseDescriptions(t *Table) ([]Description, error) {
	mappings, err := mapTable(t, TableDescriptions)
	if err != nil {
		return nil, err
	}

	out := make([]Description, 0, len(t.Rows))
	for i, cells := range t.Rows {
		r := row{cells: cells, mappings: mappings}
		d := Description{
			ProjectID:   r.get(FieldProjectID),
			Description: r.get(FieldDescription),
			BeforeAfter: r.get(FieldBeforeAfter),
		}
		if d.ProjectID == "" {
			return nil, rowErr(t, i, fmt.Errorf("empty project_id"))
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseObservations 解析指标观测表；project_id 为空的行直接丢弃
func ParseObservations(t *Table) ([]model.IndicatorObservation, error) {
	mappings, err := mapTable(t, TableIndicators)
	if err != nil {
		return nil, err
	}

	out := make([]model.IndicatorObservation, 0, len(t.Rows))
	for i, cells := range t.Rows {
		r := row{cells: cells, mappings: mappings}
		o := model.IndicatorObservation{
			ProjectID:       r.get(FieldProjectID),
			Indicator1Label: r.get(FieldIndicatorName1),
			Indicator2Label: r.get(FieldIndicatorName2),
		}
		if o.ProjectID == "" || strings.EqualFold(o.ProjectID, "nan") {
			continue
		}
		if o.Timestamp, err = ParseDate(r.get(FieldDate)); err != nil {
			return nil, rowErr(t, i, err)
		}
		if o.DisbursementValue, err = ParseFloat(r.get(FieldDisbursement)); err != nil {
			return nil, rowErr(t, i, err)
		}
		if o.Indicator1Value, err = ParseFloat(r.get(FieldIndicator1)); err != nil {
			return nil, rowErr(t, i, err)
		}
		if o.Indicator2Value, err = ParseFloat(r.get(FieldIndicator2)); err != nil {
			return nil, rowErr(t, i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// ParseTestimonials 解析证言表
func ParseTestimonials(t *Table) ([]model.Testimonial, error) {
	mappings, err := mapTable(t, TableTestimonials)
	if err != nil {
		return nil, err
	}

	out := make([]model.Testimonial, 0, len(t.Rows))
	for i, cells := range t.Rows {
		r := row{cells: cells, mappings: mappings}
		tm := model.Testimonial{ID: r.get(FieldTestimonialID), Text: r.get(FieldTestimonial)}
		if tm.ID == "" {
			return nil, rowErr(t, i, fmt.Errorf("empty testimonial_id"))
		}
		out = append(out, tm)
	}
	return out, nil
}

// PovertyRow 分区贫困指标（尚未关联几何体）
type PovertyRow struct {
	CountryCode           string
	SubnationalName       string
	MPIScore              float64
	PovertyHeadcountRatio float64
	SeverePovertyRatio    float64
}

// ParsePoverty 解析分区贫困指标表，只保留 countryCode 对应的行
// 表中没有国家列时视为全部属于 countryCode
func ParsePoverty(t *Table, countryCode string) ([]PovertyRow, error) {
	mappings, err := mapTable(t, TablePoverty)
	if err != nil {
		return nil, err
	}

	var out []PovertyRow
	for i, cells := range t.Rows {
		r := row{cells: cells, mappings: mappings}
		p := PovertyRow{
			CountryCode:     strings.ToUpper(r.get(FieldISOCountry)),
			SubnationalName: r.get(FieldSubnational),
		}
		if !r.has(FieldISOCountry) {
			p.CountryCode = countryCode
		}
		if countryCode != "" && p.CountryCode != countryCode {
			continue
		}
		if p.SubnationalName == "" {
			return nil, rowErr(t, i, fmt.Errorf("empty subnational_region"))
		}
		if p.MPIScore, err = ParseFloat(r.get(FieldMPI)); err != nil {
			return nil, rowErr(t, i, err)
		}
		if p.PovertyHeadcountRatio, err = ParseFloat(r.get(FieldHRPoor)); err != nil {
			return nil, rowErr(t, i, err)
		}
		if p.SeverePovertyRatio, err = ParseFloat(r.get(FieldHRSevere)); err != nil {
			return nil, rowErr(t, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
