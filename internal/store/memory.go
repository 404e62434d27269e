package store

import (
	"fmt"
	"slices"
	"sort"

	"github.com/nateso/toy-dash-application/internal/model"
)

// MemoryStore 内存参考数据存储
// 构造完成后只读，可被多个请求并发读取，无需加锁
type MemoryStore struct {
	countryCode  string
	projects     []model.Project // 保持加载顺序
	projectIndex map[string]int
	regions      []model.Region
	observations map[string][]model.IndicatorObservation // 按时间升序
	testimonials map[string]string
	images       map[string]model.ImageAsset
	countries    []string
	topics       []string
}

// NewMemoryStore 由数据集构建索引
func NewMemoryStore(ds *Dataset) (*MemoryStore, error) {
	s := &MemoryStore{
		countryCode:  ds.CountryCode,
		projects:     make([]model.Project, 0, len(ds.Projects)),
		projectIndex: make(map[string]int, len(ds.Projects)),
		regions:      slices.Clone(ds.Regions),
		observations: make(map[string][]model.IndicatorObservation),
		testimonials: make(map[string]string, len(ds.Testimonials)),
		images:       make(map[string]model.ImageAsset, len(ds.Images)),
	}

	countries := make(map[string]struct{})
	topics := make(map[string]struct{})
	for _, p := range ds.Projects {
		if _, ok := s.projectIndex[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProject, p.ID)
		}
		s.projectIndex[p.ID] = len(s.projects)
		s.projects = append(s.projects, p)
		if p.Country != "" {
			countries[p.Country] = struct{}{}
		}
		if p.Topic != "" {
			topics[p.Topic] = struct{}{}
		}
	}
	s.countries = sortedKeys(countries)
	s.topics = sortedKeys(topics)

	for _, o := range ds.Observations {
		s.observations[o.ProjectID] = append(s.observations[o.ProjectID], o)
	}
	for id := range s.observations {
		obs := s.observations[id]
		sort.SliceStable(obs, func(i, j int) bool {
			return obs[i].Timestamp.Before(obs[j].Timestamp)
		})
	}

	for _, t := range ds.Testimonials {
		s.testimonials[t.ID] = t.Text
	}
	for _, img := range ds.Images {
		s.images[img.ID] = img
	}

	return s, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CountryCode 数据集所属国家（同时作为分区点击标记）
func (s *MemoryStore) CountryCode() string {
	return s.countryCode
}

// Project 获取单个项目
func (s *MemoryStore) Project(id string) (model.Project, error) {
	idx, ok := s.projectIndex[id]
	if !ok {
		return model.Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return s.projects[idx], nil
}

// ListProjects 按条件列出项目，match 为 nil 时返回全部
func (s *MemoryStore) ListProjects(match func(model.Project) bool) []model.Project {
	result := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if match == nil || match(p) {
			result = append(result, p)
		}
	}
	return result
}

// Regions 全部行政分区（含几何体）
func (s *MemoryStore) Regions() []model.Region {
	return s.regions
}

// Observations 项目的指标观测（时间升序）
func (s *MemoryStore) Observations(projectID string) ([]model.IndicatorObservation, error) {
	obs, ok := s.observations[projectID]
	if !ok || len(obs) == 0 {
		return nil, fmt.Errorf("observations for %q: %w", projectID, ErrNotFound)
	}
	return obs, nil
}

// Testimonial 获取证言文本
func (s *MemoryStore) Testimonial(id string) (string, error) {
	text, ok := s.testimonials[id]
	if !ok {
		return "", fmt.Errorf("testimonial %q: %w", id, ErrNotFound)
	}
	return text, nil
}

// Image 获取图片
func (s *MemoryStore) Image(id string) (model.ImageAsset, error) {
	img, ok := s.images[id]
	if !ok {
		return model.ImageAsset{}, fmt.Errorf("image %q: %w", id, ErrNotFound)
	}
	return img, nil
}

// Countries 项目涉及的国家代码（升序）
func (s *MemoryStore) Countries() []string {
	return s.countries
}

// Topics 项目主题（升序）
func (s *MemoryStore) Topics() []string {
	return s.topics
}

// Stats 数据规模
func (s *MemoryStore) Stats() Stats {
	n := 0
	for _, obs := range s.observations {
		n += len(obs)
	}
	return Stats{
		Projects:     len(s.projects),
		Regions:      len(s.regions),
		Observations: n,
		Testimonials: len(s.testimonials),
		Images:       len(s.images),
	}
}
