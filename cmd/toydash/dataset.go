package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nateso/toy-dash-application/internal/config"
	"github.com/nateso/toy-dash-application/internal/importer"
	"github.com/nateso/toy-dash-application/internal/store"
)

// loadDataset 按配置的数据来源加载数据集，返回来源描述
func (a *app) loadDataset() (*store.Dataset, string, error) {
	switch a.cfg.Data.Source {
	case config.SourceSQLite:
		return a.loadSnapshot()
	default:
		return a.loadDir()
	}
}

func (a *app) loadDir() (*store.Dataset, string, error) {
	dir := a.path(a.cfg.Data.DataDir)
	ds, err := importer.NewCoordinator().LoadSync(importer.LoadOptions{DataDir: dir}, func(evt importer.ProgressEvent) {
		entry := a.log.WithField("event", evt.Type)
		if evt.Type == importer.EventError {
			entry.Error(evt.Message)
			return
		}
		entry.Info(evt.Message)
	})
	if err != nil {
		return nil, "", fmt.Errorf("load dataset from %s: %w", dir, err)
	}
	return ds, "dir:" + dir, nil
}

func (a *app) loadSnapshot() (*store.Dataset, string, error) {
	path := a.path(a.cfg.Data.SnapshotPath)
	st, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, "", fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer st.Close()

	ds, err := st.LoadDataset()
	if err != nil {
		return nil, "", fmt.Errorf("load snapshot %s: %w", path, err)
	}

	source := "sqlite:" + path
	if l, err := st.LatestSnapshotLog(); err == nil {
		a.log.WithFields(logrus.Fields{
			"snapshot_source": l.Source,
			"taken_at":        l.StartedAt,
		}).Info("snapshot loaded")
	}
	return ds, source, nil
}

// buildStore 加载数据集并建立内存索引
func (a *app) buildStore() (*store.MemoryStore, string, error) {
	ds, source, err := a.loadDataset()
	if err != nil {
		return nil, "", err
	}
	ms, err := store.NewMemoryStore(ds)
	if err != nil {
		return nil, "", err
	}
	return ms, source, nil
}
