package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// FileName 配置文件名
const FileName = "config.toml"

// 数据来源
const (
	SourceDir    = "dir"    // 数据目录（CSV/XLSX/GeoJSON/图片）
	SourceSQLite = "sqlite" // snapshot 命令生成的快照
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Map    MapConfig    `toml:"map"`
	Log    LogConfig    `toml:"log"`
	Export ExportConfig `toml:"export"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int     `toml:"port" env:"TOYDASH_PORT"`
	DevMode     bool    `toml:"dev_mode" env:"TOYDASH_DEV_MODE"`
	DevServer   string  `toml:"dev_server"` // 开发模式下前端开发服务器地址
	StaticDir   string  `toml:"static_dir" env:"TOYDASH_STATIC_DIR"`
	RateLimit   float64 `toml:"rate_limit"` // 交互接口每秒请求数，0 不限流
	RateBurst   int     `toml:"rate_burst"`
	OpenBrowser bool    `toml:"open_browser"`
}

// DataConfig 数据配置
type DataConfig struct {
	Source       string `toml:"source" env:"TOYDASH_DATA_SOURCE"`
	DataDir      string `toml:"data_dir" env:"TOYDASH_DATA_DIR"`
	SnapshotPath string `toml:"snapshot_path" env:"TOYDASH_SNAPSHOT_PATH"`
}

// MapConfig 底图配置
type MapConfig struct {
	Style        string  `toml:"style"`
	CenterLat    float64 `toml:"center_lat"`
	CenterLon    float64 `toml:"center_lon"`
	Zoom         float64 `toml:"zoom"`
	InlineImages bool    `toml:"inline_images" env:"TOYDASH_INLINE_IMAGES"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `toml:"level" env:"TOYDASH_LOG_LEVEL"`
	File       string `toml:"file" env:"TOYDASH_LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// ExportConfig 导出配置
type ExportConfig struct {
	TemplatePath       string `toml:"template_path" env:"TOYDASH_EXPORT_TEMPLATE"`
	DownloadTTLMinutes int    `toml:"download_ttl_minutes"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string // 实际读取的配置文件，不存在时为空
	BaseDir       string // 相对路径的基准目录
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevServer:   "http://localhost:5173",
			RateLimit:   20,
			RateBurst:   40,
			OpenBrowser: true,
		},
		Data: DataConfig{
			Source:       SourceDir,
			DataDir:      "data",
			SnapshotPath: "data/toydash.db",
		},
		Map: MapConfig{
			Style:        "carto-positron",
			CenterLat:    12,
			CenterLon:    105,
			Zoom:         5,
			InlineImages: true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  15,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Export: ExportConfig{
			DownloadTTLMinutes: 10,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 加载配置：默认值 < config.toml < 环境变量
// path 为空时读取可执行文件同目录下的 config.toml
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	cfg := DefaultConfig()

	if path == "" {
		exeDir, err := GetExeDir()
		if err != nil {
			// 无法获取可执行文件目录，使用当前目录
			exeDir = "."
		}
		path = filepath.Join(exeDir, FileName)
	}
	info.BaseDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Path = path
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, info, fmt.Errorf("parse env: %w", err)
	}
	if _, ok := os.LookupEnv("TOYDASH_PORT"); ok {
		info.PortSpecified = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

// LoadConfig 加载配置
func LoadConfig() (*AppConfig, error) {
	cfg, _, err := LoadConfigWithInfo("")
	return cfg, err
}

// Validate 校验取值范围
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Data.Source {
	case SourceDir, SourceSQLite:
	default:
		return fmt.Errorf("data.source must be %q or %q, got %q", SourceDir, SourceSQLite, c.Data.Source)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	return nil
}

// SaveConfig 保存配置
func SaveConfig(cfg *AppConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePath 相对路径基于配置文件所在目录
func ResolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
