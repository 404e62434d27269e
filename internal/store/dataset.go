package store

import (
	"errors"
	"fmt"

	"github.com/nateso/toy-dash-application/internal/model"
)

// ErrNotFound 请求的实体不存在
var ErrNotFound = errors.New("not found")

// ErrDuplicateProject 项目 ID 重复
var ErrDuplicateProject = errors.New("duplicate project id")

// Dataset 一次加载得到的全部参考数据
type Dataset struct {
	CountryCode  string
	Projects     []model.Project
	Regions      []model.Region
	Observations []model.IndicatorObservation
	Testimonials []model.Testimonial
	Images       []model.ImageAsset
}

// Stats 数据集规模统计
type Stats struct {
	Projects     int `json:"projects"`
	Regions      int `json:"regions"`
	Observations int `json:"observations"`
	Testimonials int `json:"testimonials"`
	Images       int `json:"images"`
}

// Stats 统计
func (d *Dataset) Stats() Stats {
	return Stats{
		Projects:     len(d.Projects),
		Regions:      len(d.Regions),
		Observations: len(d.Observations),
		Testimonials: len(d.Testimonials),
		Images:       len(d.Images),
	}
}

// Problem 数据完整性问题
type Problem struct {
	ProjectID string `json:"projectId"`
	Kind      string `json:"kind"` // image/testimonial/observations
	Key       string `json:"key"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: missing %s %q", p.ProjectID, p.Kind, p.Key)
}

// Validate 检查每个可选中项目的派生内容是否齐全：
// 四类图片键、三条证言及至少一条指标观测
func (s *MemoryStore) Validate() []Problem {
	var problems []Problem
	for _, p := range s.projects {
		for _, id := range model.ProjectImageIDs(p.ID) {
			if _, ok := s.images[id]; !ok {
				problems = append(problems, Problem{ProjectID: p.ID, Kind: "image", Key: id})
			}
		}
		for i := 1; i <= model.TestimonialCount; i++ {
			id := model.TestimonialID(p.ID, i)
			if _, ok := s.testimonials[id]; !ok {
				problems = append(problems, Problem{ProjectID: p.ID, Kind: "testimonial", Key: id})
			}
		}
		if len(s.observations[p.ID]) == 0 {
			problems = append(problems, Problem{ProjectID: p.ID, Kind: "observations", Key: p.ID})
		}
	}
	return problems
}
