package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nateso/toy-dash-application/internal/model"
)

const (
	progressSheet = "Progress"
	summarySheet  = "Summary"
	dateFormat    = "2006-01-02"
)

// SeriesSource 进度序列来源
type SeriesSource interface {
	ProgressSeries(projectID string, metric model.ProgressMetric) (*model.ProgressSeries, error)
}

// ProjectSource 项目信息来源
type ProjectSource interface {
	Project(id string) (model.Project, error)
}

// Exporter 项目进度导出器
//
// 配置了模板时在模板上填充（保留样式与其它 Sheet），否则新建工作簿。
type Exporter struct {
	series       SeriesSource
	projects     ProjectSource
	templatePath string
}

// NewExporter 创建导出器
func NewExporter(series SeriesSource, projects ProjectSource, templatePath string) *Exporter {
	return &Exporter{
		series:       series,
		projects:     projects,
		templatePath: templatePath,
	}
}

// ExportOptions 导出选项
type ExportOptions struct {
	ProjectID string
	Metric    model.ProgressMetric
}

// FileName 下载文件名
func (o ExportOptions) FileName() string {
	return fmt.Sprintf("%s_%s_progress.xlsx", o.ProjectID, o.Metric)
}

// Export 导出进度工作簿；progress 可为空
func (e *Exporter) Export(opts ExportOptions, progress func(ProgressEvent)) (*excelize.File, error) {
	reportProgress(progress, 0, "load")

	p, err := e.projects.Project(opts.ProjectID)
	if err != nil {
		return nil, err
	}
	series, err := e.series.ProgressSeries(opts.ProjectID, opts.Metric)
	if err != nil {
		return nil, err
	}
	reportProgress(progress, 30, "open")

	f, fresh, err := e.openWorkbook()
	if err != nil {
		return nil, err
	}

	if err := writeSeriesSheet(f, series); err != nil {
		_ = f.Close()
		return nil, err
	}
	reportProgress(progress, 70, "series")

	if err := writeSummarySheet(f, p, series); err != nil {
		_ = f.Close()
		return nil, err
	}
	if fresh {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	reportProgress(progress, 100, "done")

	if idx, err := f.GetSheetIndex(progressSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// openWorkbook fresh 表示新建的空白工作簿
func (e *Exporter) openWorkbook() (f *excelize.File, fresh bool, err error) {
	if p := strings.TrimSpace(e.templatePath); p != "" {
		f, err := excelize.OpenFile(p)
		if err != nil {
			return nil, false, fmt.Errorf("open export template: %w", err)
		}
		return f, false, nil
	}
	return excelize.NewFile(), true, nil
}

// ensureSheet 模板中不存在时新建；已存在则清空旧内容
func ensureSheet(f *excelize.File, name string) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx >= 0 {
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}
	_, err = f.NewSheet(name)
	return err
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func writeSeriesSheet(f *excelize.File, s *model.ProgressSeries) error {
	if err := ensureSheet(f, progressSheet); err != nil {
		return err
	}

	rows := [][]any{{s.XLabel, s.YLabel, "Total"}}
	for _, pt := range s.Points {
		rows = append(rows, []any{pt.Date.Format(dateFormat), pt.Value, pt.Total})
	}
	rows = append(rows, []any{s.GoalLabel, nil, s.Goal})

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(progressSheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", progressSheet, i+1, err)
		}
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(progressSheet, 1, 1, style); err != nil {
		return err
	}
	if err := f.SetRowStyle(progressSheet, len(rows), len(rows), style); err != nil {
		return err
	}
	return f.SetColWidth(progressSheet, "A", "C", 18)
}

func writeSummarySheet(f *excelize.File, p model.Project, s *model.ProgressSeries) error {
	if err := ensureSheet(f, summarySheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Field", "Value"},
		{"Project ID", p.ID},
		{"Name", p.Name},
		{"Location", p.Location},
		{"Country", p.Country},
		{"Topic", p.Topic},
		{"Funding", p.FundingLabel()},
		{"Start", p.StartDate},
		{"End", p.EndDate},
		{"Metric", s.YLabel},
		{"Observations", len(s.Points)},
		{s.GoalLabel, s.Goal},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", summarySheet, i+1, err)
		}
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, style); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 16); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 40)
}
