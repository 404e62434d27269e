package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/parser"
	"github.com/nateso/toy-dash-application/internal/store"
)

// Coordinator 数据集加载协调器
type Coordinator struct {
	recognizer *parser.SheetRecognizer
}

// NewCoordinator 创建加载协调器
func NewCoordinator() *Coordinator {
	return &Coordinator{
		recognizer: parser.NewSheetRecognizer(),
	}
}

// LoadOptions 加载选项
type LoadOptions struct {
	DataDir  string
	Manifest *Manifest // 为空时读取 DataDir/manifest.yaml
}

// 进度事件类型
const (
	EventStart     = "start"
	EventInfo      = "info"
	EventTableDone = "table_done"
	EventDone      = "done"
	EventError     = "error"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/info/table_done/done/error
	Message   string    `json:"message"` // 事件消息
	Data      any       `json:"data"`    // done 事件携带 *store.Dataset
	Err       error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// loadContext 一次加载的上下文
type loadContext struct {
	dataDir  string
	manifest Manifest
	events   chan ProgressEvent
	tables   map[parser.TableKind]*parser.Table
}

// Load 异步加载数据集，返回进度通道；通道以 done 或 error 事件结束
func (c *Coordinator) Load(opts LoadOptions) <-chan ProgressEvent {
	events := make(chan ProgressEvent, 32)

	go func() {
		defer close(events)
		ds, err := c.doLoad(opts, events)
		if err != nil {
			events <- ProgressEvent{Type: EventError, Message: err.Error(), Err: err, Timestamp: time.Now()}
			return
		}
		events <- ProgressEvent{Type: EventDone, Message: "dataset loaded", Data: ds, Timestamp: time.Now()}
	}()

	return events
}

// LoadSync 同步加载；progress 可为空
func (c *Coordinator) LoadSync(opts LoadOptions, progress func(ProgressEvent)) (*store.Dataset, error) {
	var ds *store.Dataset
	var err error
	for evt := range c.Load(opts) {
		if progress != nil {
			progress(evt)
		}
		switch evt.Type {
		case EventDone:
			ds, _ = evt.Data.(*store.Dataset)
		case EventError:
			err = evt.Err
		}
	}
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.New("load finished without dataset")
	}
	return ds, nil
}

// sendProgress 非终止事件，通道已满时丢弃
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
	}
}

func (c *Coordinator) doLoad(opts LoadOptions, events chan ProgressEvent) (*store.Dataset, error) {
	lc := &loadContext{
		dataDir: opts.DataDir,
		events:  events,
		tables:  make(map[parser.TableKind]*parser.Table),
	}
	if opts.Manifest != nil {
		lc.manifest = *opts.Manifest
	} else {
		m, err := LoadManifest(opts.DataDir)
		if err != nil {
			return nil, err
		}
		lc.manifest = m
	}

	c.sendProgress(events, ProgressEvent{
		Type:    EventStart,
		Message: fmt.Sprintf("loading dataset for %s from %s", lc.manifest.CountryCode, opts.DataDir),
	})

	if lc.manifest.Workbook != "" {
		if err := c.readWorkbook(lc); err != nil {
			return nil, err
		}
	}
	if err := c.readCSVTables(lc); err != nil {
		return nil, err
	}

	ds := &store.Dataset{CountryCode: lc.manifest.CountryCode}
	var err error

	if ds.Projects, err = parser.ParseProjects(lc.tables[parser.TableProjects]); err != nil {
		return nil, err
	}
	if t, ok := lc.tables[parser.TableDescriptions]; ok {
		descriptions, err := parser.ParseDescriptions(t)
		if err != nil {
			return nil, err
		}
		mergeDescriptions(ds.Projects, descriptions)
	}
	if ds.Observations, err = parser.ParseObservations(lc.tables[parser.TableIndicators]); err != nil {
		return nil, err
	}
	if ds.Testimonials, err = parser.ParseTestimonials(lc.tables[parser.TableTestimonials]); err != nil {
		return nil, err
	}
	c.sendProgress(events, ProgressEvent{
		Type:    EventTableDone,
		Message: fmt.Sprintf("%d projects, %d observations, %d testimonials", len(ds.Projects), len(ds.Observations), len(ds.Testimonials)),
	})

	if ds.Regions, err = c.loadRegions(lc); err != nil {
		return nil, err
	}
	c.sendProgress(events, ProgressEvent{
		Type:    EventTableDone,
		Message: fmt.Sprintf("%d regions joined", len(ds.Regions)),
	})

	if lc.manifest.Images != "" {
		if ds.Images, err = loadImages(lc.manifest.resolve(lc.dataDir, lc.manifest.Images)); err != nil {
			return nil, err
		}
		c.sendProgress(events, ProgressEvent{
			Type:    EventTableDone,
			Message: fmt.Sprintf("%d images", len(ds.Images)),
		})
	}

	return ds, nil
}

// readWorkbook 读取工作簿并按表头识别各 Sheet
func (c *Coordinator) readWorkbook(lc *loadContext) error {
	path := lc.manifest.resolve(lc.dataDir, lc.manifest.Workbook)
	file, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	for _, sheet := range file.GetSheetList() {
		table, err := parser.ReadSheet(file, sheet)
		if err != nil {
			c.sendProgress(lc.events, ProgressEvent{Type: EventInfo, Message: fmt.Sprintf("sheet %q skipped: %v", sheet, err)})
			continue
		}
		rec := c.recognizer.Recognize(sheet, table.Header)
		c.sendProgress(lc.events, ProgressEvent{
			Type:    EventInfo,
			Message: fmt.Sprintf("sheet %q recognized as %s (confidence %.2f)", sheet, rec.Kind, rec.Confidence),
			Data:    rec,
		})
		if rec.Kind == parser.TableUnknown {
			continue
		}
		if _, dup := lc.tables[rec.Kind]; dup {
			return fmt.Errorf("workbook %s: more than one %s sheet", filepath.Base(path), rec.Kind)
		}
		lc.tables[rec.Kind] = table
	}
	return nil
}

// readCSVTables 读取工作簿未提供的表
func (c *Coordinator) readCSVTables(lc *loadContext) error {
	files := []struct {
		kind     parser.TableKind
		path     string
		optional bool
	}{
		{parser.TableProjects, lc.manifest.Projects, false},
		{parser.TableDescriptions, lc.manifest.Descriptions, true},
		{parser.TableIndicators, lc.manifest.Indicators, false},
		{parser.TableTestimonials, lc.manifest.Testimonials, false},
		{parser.TablePoverty, lc.manifest.Poverty, true},
	}

	for _, f := range files {
		if _, ok := lc.tables[f.kind]; ok {
			continue
		}
		if f.path == "" {
			if f.optional {
				continue
			}
			return fmt.Errorf("manifest: no source for %s", f.kind)
		}
		table, err := parser.ReadCSVFile(lc.manifest.resolve(lc.dataDir, f.path))
		if err != nil {
			return fmt.Errorf("load %s: %w", f.kind, err)
		}
		lc.tables[f.kind] = table
	}
	return nil
}

// loadRegions 读取贫困指标并与边界几何体显式关联；未配置贫困数据时返回空
func (c *Coordinator) loadRegions(lc *loadContext) ([]model.Region, error) {
	table, ok := lc.tables[parser.TablePoverty]
	if !ok {
		return nil, nil
	}
	rows, err := parser.ParsePoverty(table, lc.manifest.CountryCode)
	if err != nil {
		return nil, err
	}
	if lc.manifest.Geometry == "" {
		return nil, errors.New("manifest: poverty data requires geometry")
	}
	fc, err := parser.ReadFeatureCollectionFile(lc.manifest.resolve(lc.dataDir, lc.manifest.Geometry))
	if err != nil {
		return nil, fmt.Errorf("load geometry: %w", err)
	}
	return parser.JoinRegions(rows, fc, parser.JoinOptions{
		JoinProperty: lc.manifest.JoinProperty,
		IDProperty:   lc.manifest.IDProperty,
	})
}

// mergeDescriptions 用描述表补充项目文本（描述表优先）
func mergeDescriptions(projects []model.Project, descriptions []parser.Description) {
	byID := make(map[string]parser.Description, len(descriptions))
	for _, d := range descriptions {
		byID[d.ProjectID] = d
	}
	for i := range projects {
		d, ok := byID[projects[i].ID]
		if !ok {
			continue
		}
		if d.Description != "" {
			projects[i].Description = d.Description
		}
		if d.BeforeAfter != "" {
			projects[i].BeforeAfterNarrative = d.BeforeAfter
		}
	}
}
