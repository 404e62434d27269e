package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nateso/toy-dash-application/internal/config"
	"github.com/nateso/toy-dash-application/internal/store"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load the dataset directory and write it into a SQLite snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Data.Source == config.SourceSQLite {
				return fmt.Errorf("snapshot reads a dataset directory; use --source dir")
			}
			if out == "" {
				out = a.cfg.Data.SnapshotPath
			}
			return runSnapshot(cmd, a, a.path(out))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "snapshot file (default: data.snapshot_path)")
	return cmd
}

func runSnapshot(cmd *cobra.Command, a *app, out string) error {
	ds, source, err := a.loadDataset()
	if err != nil {
		return err
	}
	// 重复 ID 等问题在写入前暴露
	if _, err := store.NewMemoryStore(ds); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	st, err := store.New(out)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveDataset(ds, source); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	stats := ds.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "snapshot written to %s (%d projects, %d regions, %d observations, %d testimonials, %d images)\n",
		out, stats.Projects, stats.Regions, stats.Observations, stats.Testimonials, stats.Images)
	return nil
}
