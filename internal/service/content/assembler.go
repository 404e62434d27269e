package content

import (
	"encoding/base64"
	"net/url"

	"github.com/nateso/toy-dash-application/internal/model"
)

// DataStore 只读参考数据
type DataStore interface {
	Project(id string) (model.Project, error)
	ListProjects(match func(model.Project) bool) []model.Project
	Regions() []model.Region
	Observations(projectID string) ([]model.IndicatorObservation, error)
	Testimonial(id string) (string, error)
	Image(id string) (model.ImageAsset, error)
}

// Config 内容组装配置
type Config struct {
	Base         model.BaseLayer
	InlineImages bool   // true 时图片以 data URI 内联
	ImagePrefix  string // 非内联时的图片 URL 前缀
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Base: model.BaseLayer{
			Style:  "carto-positron",
			Center: model.MapCenter{Lat: 12, Lon: 105},
			Zoom:   5,
		},
		InlineImages: true,
		ImagePrefix:  "/api/images/",
	}
}

// Assembler 内容组装器
type Assembler struct {
	store DataStore
	cfg   Config
}

// NewAssembler 创建内容组装器
func NewAssembler(store DataStore, cfg Config) *Assembler {
	return &Assembler{store: store, cfg: cfg}
}

// Assemble 由视图状态组装内容载荷
// 只有选中项目且其数据缺失时返回 *UnknownEntityError，此时载荷仍带有地图图层
func (a *Assembler) Assemble(vs model.ViewState) (model.ContentPayload, error) {
	payload := model.ContentPayload{
		Map: a.AssembleMap(vs.Filters),
	}

	if vs.Selection.Kind != model.SelectionProject {
		placeholder := model.DefaultPlaceholder
		payload.State = model.ContentPlaceholder
		payload.Placeholder = &placeholder
		return payload, nil
	}

	if err := a.assembleProject(&payload, vs.Selection.EntityID, vs.ProgressMetric); err != nil {
		return model.ContentPayload{Map: payload.Map}, err
	}
	payload.State = model.ContentPopulated
	return payload, nil
}

func (a *Assembler) assembleProject(payload *model.ContentPayload, id string, metric model.ProgressMetric) error {
	p, err := a.store.Project(id)
	if err != nil {
		return unknown("project", id, err)
	}

	projectImg, err := a.imageRef(id)
	if err != nil {
		return err
	}
	payload.Description = &model.DescriptionBlock{
		Title: p.Name,
		Text:  p.Description,
		Image: projectImg,
	}

	before, err := a.imageRef(model.BeforeImageID(id))
	if err != nil {
		return err
	}
	after, err := a.imageRef(model.AfterImageID(id))
	if err != nil {
		return err
	}
	payload.BeforeAfter = &model.BeforeAfterBlock{
		Before:    before,
		After:     after,
		Narrative: p.BeforeAfterNarrative,
	}

	payload.Testimonials = make([]model.TestimonialBlock, 0, model.TestimonialCount)
	for n := 1; n <= model.TestimonialCount; n++ {
		tid := model.TestimonialID(id, n)
		img, err := a.imageRef(tid)
		if err != nil {
			return err
		}
		text, err := a.store.Testimonial(tid)
		if err != nil {
			return unknown("testimonial", tid, err)
		}
		payload.Testimonials = append(payload.Testimonials, model.TestimonialBlock{ID: tid, Image: img, Text: text})
	}

	obs, err := a.store.Observations(id)
	if err != nil || len(obs) == 0 {
		return unknown("observations", id, err)
	}
	payload.Progress = buildSeries(id, metric, obs)
	payload.DropdownOptions = metricOptions(obs[0])
	return nil
}

// imageRef 解析图片引用；缺失即为 UnknownEntityError
func (a *Assembler) imageRef(id string) (model.ImageRef, error) {
	img, err := a.store.Image(id)
	if err != nil {
		return model.ImageRef{}, unknown("image", id, err)
	}
	ref := model.ImageRef{AssetID: id}
	if a.cfg.InlineImages {
		ref.Src = "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	} else {
		ref.Src = a.cfg.ImagePrefix + url.PathEscape(id)
	}
	return ref, nil
}
