package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	v1 "github.com/nateso/toy-dash-application/internal/api/v1"
	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/server"
	"github.com/nateso/toy-dash-application/internal/service/content"
	"github.com/nateso/toy-dash-application/internal/util"
)

type serveOptions struct {
	port      int
	devMode   bool
	noBrowser bool
	staticDir string
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and start the dashboard API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a, opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "port (only used when config does not set server.port)")
	cmd.Flags().BoolVar(&opts.devMode, "dev", false, "development mode")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "do not open a browser")
	cmd.Flags().StringVar(&opts.staticDir, "static-dir", "", "directory with the built renderer")
	return cmd
}

func contentConfig(a *app) content.Config {
	cfg := content.DefaultConfig()
	cfg.Base = model.BaseLayer{
		Style:  a.cfg.Map.Style,
		Center: model.MapCenter{Lat: a.cfg.Map.CenterLat, Lon: a.cfg.Map.CenterLon},
		Zoom:   a.cfg.Map.Zoom,
	}
	cfg.InlineImages = a.cfg.Map.InlineImages
	return cfg
}

// portSearchAttempts 默认端口被占用时向后尝试的端口数
const portSearchAttempts = 20

// listenPort 显式指定的端口原样使用；默认端口被占用时顺延到下一个可用端口
func listenPort(port int, explicit bool) (int, error) {
	if explicit {
		return port, nil
	}
	return util.FindAvailablePort(port, portSearchAttempts)
}

func runServe(ctx context.Context, a *app, opts *serveOptions) error {
	cfg := a.cfg
	explicitPort := a.info.PortSpecified
	if opts.port > 0 && !a.info.PortSpecified {
		cfg.Server.Port = opts.port
		explicitPort = true
	}
	port, err := listenPort(cfg.Server.Port, explicitPort)
	if err != nil {
		return err
	}
	if port != cfg.Server.Port {
		a.log.WithFields(logrus.Fields{"default": cfg.Server.Port, "port": port}).Warn("default port busy, using next free port")
		cfg.Server.Port = port
	}
	if opts.devMode {
		cfg.Server.DevMode = true
	}
	if opts.staticDir != "" {
		cfg.Server.StaticDir = opts.staticDir
	}
	cfg.Server.StaticDir = a.path(cfg.Server.StaticDir)

	// 数据加载失败直接退出
	ms, source, err := a.buildStore()
	if err != nil {
		return err
	}
	stats := ms.Stats()
	a.log.WithFields(logrus.Fields{
		"source":       source,
		"country":      ms.CountryCode(),
		"projects":     stats.Projects,
		"regions":      stats.Regions,
		"observations": stats.Observations,
	}).Info("dataset ready")
	for _, p := range ms.Validate() {
		a.log.WithField("project", p.ProjectID).Warn(p.String())
	}

	handler := v1.NewHandler(v1.Options{
		Store:        ms,
		Content:      contentConfig(a),
		TemplatePath: a.path(cfg.Export.TemplatePath),
		DownloadTTL:  time.Duration(cfg.Export.DownloadTTLMinutes) * time.Minute,
		Source:       source,
		Log:          a.log,
	})
	srv := server.NewServer(cfg, handler, a.log)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := util.LocalURL(cfg.Server.Port)
	a.log.WithField("addr", addr).Info("server listening")

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode && !opts.noBrowser {
		go func() {
			time.Sleep(300 * time.Millisecond)
			if err := util.OpenBrowserWithFallback(url); err != nil {
				a.log.Infof("open %s in your browser", url)
			}
		}()
	} else {
		a.log.Infof("dashboard available at %s", url)
	}

	return srv.Run(ctx, addr)
}
