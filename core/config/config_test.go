package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(envConfigPath, "")
	t.Setenv(envLogLevel, "")
	t.Setenv(envLogFormat, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(envConfigPath, "")
	t.Setenv(envLogLevel, "")
	t.Setenv(envLogFormat, "")

	path := writeFile(t, dir, "cfg.yaml", `
log:
  level: debug
  format: json
compare:
  ignore_object_overrides: true
  implements: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Compare.IgnoreSystemObjectOverrides)
	assert.True(t, cfg.Compare.CompareImplements)
	assert.False(t, cfg.Compare.CompareTypeParameters)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, DefaultConfigFile, "log:\n  level: debug\n")
	t.Setenv(envConfigPath, "")
	t.Setenv(envLogLevel, "error")
	t.Setenv(envLogFormat, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(envConfigPath, "")
	t.Setenv(envLogLevel, "")
	t.Setenv(envLogFormat, "")

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	bad := writeFile(t, dir, "bad.yaml", "log: [")
	_, err = Load(bad)
	assert.Error(t, err, "syntax error")

	level := writeFile(t, dir, "level.yaml", "log:\n  level: loud\n")
	_, err = Load(level)
	assert.ErrorContains(t, err, "loud")

	t.Setenv(envLogFormat, "xml")
	_, err = Load("")
	assert.ErrorContains(t, err, "xml")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
