package parser

import (
	"fmt"
	"strings"
)

// 各类表格的目标字段
const (
	FieldProjectID      = "project_id"
	FieldName           = "name"
	FieldLocation       = "location"
	FieldCountry        = "country"
	FieldTopic          = "topic"
	FieldFunding        = "funding"
	FieldStart          = "start"
	FieldEnd            = "end"
	FieldLat            = "lat"
	FieldLon            = "lon"
	FieldDescription    = "description"
	FieldBeforeAfter    = "before_after"
	FieldDate           = "date"
	FieldDisbursement   = "disbursement"
	FieldIndicator1     = "indicator_1"
	FieldIndicator2     = "indicator_2"
	FieldIndicatorName1 = "indicator_name_1"
	FieldIndicatorName2 = "indicator_name_2"
	FieldTestimonialID  = "testimonial_id"
	FieldTestimonial    = "testimonial"
	FieldISOCountry     = "iso_country_code"
	FieldSubnational    = "subnational_region"
	FieldMPI            = "mpi_region"
	FieldHRPoor         = "hr_poor"
	FieldHRSevere       = "hr_severe_poverty"
)

// fieldPatterns 规范化列名 -> 字段（正则完整匹配，按顺序尝试）
var fieldPatterns = map[TableKind][]struct {
	field   string
	pattern string
}{
	TableProjects: {
		{FieldProjectID, `project_id|id`},
		{FieldName, `name|project_name`},
		{FieldLocation, `location|town`},
		{FieldCountry, `country|iso_country_code`},
		{FieldTopic, `topic|sector`},
		{FieldFunding, `funding|funding_usd|funding_amount`},
		{FieldStart, `start|start_date`},
		{FieldEnd, `end|end_date`},
		{FieldLat, `lat|latitude`},
		{FieldLon, `lon|lng|longitude`},
		{FieldDescription, `description|project_description`},
		{FieldBeforeAfter, `before_after|before_after_text|before_after_narrative`},
	},
	TableIndicators: {
		{FieldProjectID, `project_id`},
		{FieldDate, `date|ts`},
		{FieldDisbursement, `disbursement|disbursements`},
		{FieldIndicator1, `indicator_1`},
		{FieldIndicator2, `indicator_2`},
		{FieldIndicatorName1, `indicator_name_1|indicator_1_name|indicator_1_label`},
		{FieldIndicatorName2, `indicator_name_2|indicator_2_name|indicator_2_label`},
	},
	TableTestimonials: {
		{FieldTestimonialID, `testimonial_id|id`},
		{FieldTestimonial, `testimonial|text`},
	},
	TablePoverty: {
		{FieldISOCountry, `iso_country_code|country_code`},
		{FieldSubnational, `subnational_region|region`},
		{FieldMPI, `mpi_region|mpi`},
		{FieldHRPoor, `hr_poor`},
		{FieldHRSevere, `hr_severe_poverty`},
	},
	TableDescriptions: {
		{FieldProjectID, `project_id`},
		{FieldDescription, `description|project_description`},
		{FieldBeforeAfter, `before_after|before_after_text|before_after_narrative`},
	},
}

// requiredFields 缺失即无法解析的字段
var requiredFields = map[TableKind][]string{
	TableProjects:     {FieldProjectID, FieldName, FieldLat, FieldLon},
	TableIndicators:   {FieldProjectID, FieldDate},
	TableTestimonials: {FieldTestimonialID, FieldTestimonial},
	TablePoverty:      {FieldSubnational, FieldMPI, FieldHRPoor},
	TableDescriptions: {FieldProjectID},
}

// FieldMapper 字段映射器
type FieldMapper struct {
	kind TableKind
}

// NewFieldMapper 创建字段映射器
func NewFieldMapper(kind TableKind) *FieldMapper {
	return &FieldMapper{kind: kind}
}

// Map 映射列名，返回 字段 -> 映射；每个字段取第一个匹配列
func (m *FieldMapper) Map(columnNames []string) map[string]FieldMapping {
	mappings := make(map[string]FieldMapping)
	for idx, raw := range columnNames {
		col := NormalizeColumnName(raw)
		if col == "" {
			continue
		}
		for _, fp := range fieldPatterns[m.kind] {
			if _, taken := mappings[fp.field]; taken {
				continue
			}
			if MatchPattern(col, fp.pattern) {
				mappings[fp.field] = FieldMapping{ColumnIndex: idx, ColumnName: raw, Field: fp.field}
				break
			}
		}
	}
	return mappings
}

// MapRequired 映射列名并校验必需字段
func (m *FieldMapper) MapRequired(columnNames []string) (map[string]FieldMapping, error) {
	mappings := m.Map(columnNames)
	var missing []string
	for _, f := range requiredFields[m.kind] {
		if _, ok := mappings[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %s", m.kind, strings.Join(missing, ", "))
	}
	return mappings, nil
}

// row 按字段取值的行视图
type row struct {
	cells    []string
	mappings map[string]FieldMapping
}

func (r row) get(field string) string {
	m, ok := r.mappings[field]
	if !ok || m.ColumnIndex >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[m.ColumnIndex])
}

func (r row) has(field string) bool {
	_, ok := r.mappings[field]
	return ok
}
