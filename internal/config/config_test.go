package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, info.Path)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, filepath.Dir(path), info.BaseDir)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[data]
source = "sqlite"

[map]
zoom = 6.5
inline_images = false
`)

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, SourceSQLite, cfg.Data.Source)
	assert.Equal(t, 6.5, cfg.Map.Zoom)
	assert.False(t, cfg.Map.InlineImages)
	// 未出现的键保持默认
	assert.Equal(t, "carto-positron", cfg.Map.Style)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[server]\ndev_mode = true\n")
	t.Setenv("TOYDASH_PORT", "8123")
	t.Setenv("TOYDASH_DATA_DIR", "/srv/toydash")
	t.Setenv("TOYDASH_LOG_LEVEL", "debug")

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 8123, cfg.Server.Port)
	assert.True(t, cfg.Server.DevMode)
	assert.Equal(t, "/srv/toydash", cfg.Data.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, _, err := LoadConfigWithInfo(writeConfig(t, "[data]\nsource = \"s3\"\n"))
	assert.ErrorContains(t, err, "data.source")

	_, _, err = LoadConfigWithInfo(writeConfig(t, "[server]\nport = \"x\"\n"))
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("base", "data"), ResolvePath("base", "data"))
	assert.Equal(t, "/abs/data", ResolvePath("base", "/abs/data"))
	assert.Equal(t, "", ResolvePath("base", ""))
}
