package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nateso/toy-dash-application/internal/exporter"
	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/service/content"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		projectID string
		metric    string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project's progress series to XLSX",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, ok := model.ParseProgressMetric(metric)
			if !ok {
				return fmt.Errorf("unknown metric %q", metric)
			}

			ms, _, err := a.buildStore()
			if err != nil {
				return err
			}
			exp := exporter.NewExporter(content.NewAssembler(ms, contentConfig(a)), ms, a.path(a.cfg.Export.TemplatePath))

			opts := exporter.ExportOptions{ProjectID: projectID, Metric: m}
			f, err := exp.Export(opts, nil)
			if err != nil {
				return err
			}
			defer f.Close()

			if out == "" {
				out = opts.FileName()
			}
			if err := f.SaveAs(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	cmd.Flags().StringVarP(&metric, "metric", "m", string(model.MetricDisbursement), "disbursement, indicator_1 or indicator_2")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <project>_<metric>_progress.xlsx)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
