package content

import (
	"github.com/nateso/toy-dash-application/internal/model"
)

const (
	progressXLabel = "Date"
	goalLabel      = "Project Goal"
)

// ProgressSeries 计算项目进度序列：按时间升序累加所选指标，目标线为最后一个累计值
func (a *Assembler) ProgressSeries(projectID string, metric model.ProgressMetric) (*model.ProgressSeries, error) {
	obs, err := a.store.Observations(projectID)
	if err != nil || len(obs) == 0 {
		return nil, unknown("observations", projectID, err)
	}
	return buildSeries(projectID, metric, obs), nil
}

// buildSeries obs 需已按时间升序排列
func buildSeries(projectID string, metric model.ProgressMetric, obs []model.IndicatorObservation) *model.ProgressSeries {
	first := obs[0]
	series := &model.ProgressSeries{
		ProjectID: projectID,
		Metric:    metric,
		XLabel:    progressXLabel,
		YLabel:    metric.AxisLabel(first.Indicator1Label, first.Indicator2Label),
		Points:    make([]model.ProgressPoint, 0, len(obs)),
		GoalLabel: goalLabel,
	}

	var total float64
	for _, o := range obs {
		v := o.Value(metric)
		total += v
		series.Points = append(series.Points, model.ProgressPoint{
			Date:  o.Timestamp,
			Value: v,
			Total: total,
		})
	}
	series.Goal = total
	return series
}

// MetricOptions 进度指标下拉选项，指标名称取自项目的第一条观测
func (a *Assembler) MetricOptions(projectID string) ([]model.DropdownOption, error) {
	obs, err := a.store.Observations(projectID)
	if err != nil || len(obs) == 0 {
		return nil, unknown("observations", projectID, err)
	}
	return metricOptions(obs[0]), nil
}

func metricOptions(first model.IndicatorObservation) []model.DropdownOption {
	opts := make([]model.DropdownOption, 0, len(model.ProgressMetrics))
	for _, m := range model.ProgressMetrics {
		opts = append(opts, model.DropdownOption{
			Label: m.AxisLabel(first.Indicator1Label, first.Indicator2Label),
			Value: string(m),
		})
	}
	return opts
}
