package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Project 发展项目（参考数据，只读）
type Project struct {
	ID                   string  `json:"projectId"`
	Name                 string  `json:"name"`
	Location             string  `json:"location"`
	Country              string  `json:"country"` // ISO-3
	Topic                string  `json:"topic"`
	FundingAmount        float64 `json:"fundingAmount"` // USD
	StartDate            string  `json:"startDate"`
	EndDate              string  `json:"endDate"`
	Lat                  float64 `json:"lat"`
	Lon                  float64 `json:"lon"`
	Description          string  `json:"description"`
	BeforeAfterNarrative string  `json:"beforeAfterNarrative"`
}

// FundingLabel 资金展示文本，形如 "1.5 Mio. USD"
func (p Project) FundingLabel() string {
	return FormatMillions(p.FundingAmount) + " Mio. USD"
}

// Region 行政分区及其贫困指标
type Region struct {
	ID                    string   `json:"regionId"`
	SubnationalName       string   `json:"subnationalName"`
	CountryCode           string   `json:"countryCode"`
	MPIScore              float64  `json:"mpiRegion"`
	PovertyHeadcountRatio float64  `json:"hrPoor"`
	SeverePovertyRatio    float64  `json:"hrSeverePoverty"`
	Geometry              Geometry `json:"geometry"`
}

// Value 按贫困指标取值
func (r Region) Value(indicator PovertyIndicator) (float64, bool) {
	switch indicator {
	case PovertyMPI:
		return r.MPIScore, true
	case PovertyHeadcount:
		return r.PovertyHeadcountRatio, true
	default:
		return 0, false
	}
}

// Geometry GeoJSON 几何体（坐标保持原样透传给前端）
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// IndicatorObservation 项目指标观测值（按时间排列）
type IndicatorObservation struct {
	ProjectID         string    `json:"projectId"`
	Timestamp         time.Time `json:"timestamp"`
	DisbursementValue float64   `json:"disbursement"`
	Indicator1Value   float64   `json:"indicator1"`
	Indicator2Value   float64   `json:"indicator2"`
	Indicator1Label   string    `json:"indicator1Label"`
	Indicator2Label   string    `json:"indicator2Label"`
}

// Value 按进度指标取值
func (o IndicatorObservation) Value(metric ProgressMetric) float64 {
	switch metric {
	case MetricIndicator1:
		return o.Indicator1Value
	case MetricIndicator2:
		return o.Indicator2Value
	default:
		return o.DisbursementValue
	}
}

// Testimonial 受益人证言
type Testimonial struct {
	ID   string `json:"testimonialId"`
	Text string `json:"text"`
}

// ImageAsset 图片资源
type ImageAsset struct {
	ID          string `json:"assetId"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// TestimonialCount 每个项目的证言数量
const TestimonialCount = 3

// TestimonialID 证言/证言图片的复合键: {project_id}_testimonial_0{n}
func TestimonialID(projectID string, n int) string {
	return fmt.Sprintf("%s_testimonial_0%d", projectID, n)
}

// BeforeImageID 项目前期图片键
func BeforeImageID(projectID string) string {
	return projectID + "_before"
}

// AfterImageID 项目后期图片键
func AfterImageID(projectID string) string {
	return projectID + "_after"
}

// ProjectImageIDs 可选中项目必须具备的全部图片键
func ProjectImageIDs(projectID string) []string {
	ids := []string{projectID, BeforeImageID(projectID), AfterImageID(projectID)}
	for i := 1; i <= TestimonialCount; i++ {
		ids = append(ids, TestimonialID(projectID, i))
	}
	return ids
}

// FormatMillions 以百万为单位格式化，整数值保留一位小数（"2.0"）
// 绝对值小于 1e-4 或不小于 1e16 时使用科学计数法（"5e-05"）
func FormatMillions(v float64) string {
	m := v / 1e6
	if a := math.Abs(m); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(m, 'e', -1, 64)
	}
	s := strconv.FormatFloat(m, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
