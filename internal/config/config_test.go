package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/objectstack-ai/stackdef/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")

	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel())
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Empty(t, cfg.Collections)
	assert.Empty(t, cfg.File())
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `strict: false
log:
  level: debug
output:
  format: json
collections:
  - name: triggers
    kind: trigger
    reference: target
  - name: layouts
    anonymous: true
    key_maps: [regions]
`)
	chdir(t, dir)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel())
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.NotEmpty(t, cfg.File())
	require.Len(t, cfg.Collections, 2)
	assert.Equal(t, "target", cfg.Collections[0].Reference)
	assert.Equal(t, []string{"regions"}, cfg.Collections[1].KeyMaps)
	assert.True(t, cfg.Collections[1].Anonymous)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	spec, ok := catalog.Lookup("triggers")
	require.True(t, ok)
	assert.Equal(t, "trigger", spec.Kind)
	assert.True(t, catalog.Has("objects"))
}

func TestLoadExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "output:\n  format: json\n")
	chdir(t, t.TempDir())

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, path, cfg.File())
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log:\n  level: info\n")
	chdir(t, dir)
	t.Setenv("STACKDEF_LOG_LEVEL", "warn")
	t.Setenv("STACKDEF_STRICT", "false")
	t.Setenv("STACKDEF_OUTPUT_FORMAT", "json")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, logger.LevelWarn, cfg.LogLevel())
	assert.False(t, cfg.Strict)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"log level", "log:\n  level: loud\n", "log.level"},
		{"output format", "output:\n  format: toml\n", "output.format"},
		{"collection name", "collections:\n  - name: BadName\n", "collections"},
		{"reserved collection", "collections:\n  - name: manifest\n", "reserved"},
		{"malformed yaml", "log: [\n", "failed to read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			chdir(t, dir)

			_, err := Load("")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
