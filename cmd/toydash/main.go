package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nateso/toy-dash-application/internal/config"
	"github.com/nateso/toy-dash-application/internal/logger"
)

// globalOptions 所有子命令共用的参数
type globalOptions struct {
	configPath string
	dataDir    string
	source     string
	logLevel   string
}

// app 一次命令执行的运行环境
type app struct {
	cfg    *config.AppConfig
	info   config.LoadConfigInfo
	log    *logrus.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "toydash",
		Short: "Project & poverty map dashboard backend",
		Long: `toydash serves the interactive project map dashboard: it loads the
reference dataset (projects, poverty regions, indicators, testimonials, images)
once and exposes the click-driven view state and content as a JSON API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: config.toml next to the executable)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "dataset directory (overrides config)")
	flags.StringVar(&opts.source, "source", "", "dataset source: dir or sqlite (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		newServeCmd(a),
		newSnapshotCmd(a),
		newCheckCmd(a),
		newExportCmd(a),
	)
	return root
}

// init 加载配置并创建日志；命令行参数优先于配置文件与环境变量
func (a *app) init(opts *globalOptions) error {
	cfg, info, err := config.LoadConfigWithInfo(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}
	if opts.source != "" {
		cfg.Data.Source = opts.source
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.cfg, a.info, a.log, a.closer = cfg, info, log, closer
	if info.Path != "" {
		log.WithField("path", info.Path).Debug("config loaded")
	}
	return nil
}

// path 相对路径基于配置文件目录
func (a *app) path(p string) string {
	return config.ResolvePath(a.info.BaseDir, p)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
