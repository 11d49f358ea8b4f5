package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loupe.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[index]
languages = ["go", "typescript"]
ignore_prefixes = ["test"]

[todos]
markers = ["REVIEW"]

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "typescript"}, cfg.Index.Languages)
	assert.Equal(t, []string{"REVIEW"}, cfg.Todos.Markers)
	assert.Equal(t, "debug", cfg.Log.LevelOrDefault())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadInvalidLevel(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "loud"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestEnvOverridesLevel(t *testing.T) {
	t.Setenv("LOUPE_LOG_LEVEL", "warn")
	path := writeConfig(t, `
[log]
level = "info"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.LevelOrDefault())
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.LevelOrDefault())
	assert.True(t, cfg.IndexesLanguage("go"))
}

func TestIndexesLanguageFilter(t *testing.T) {
	cfg := &Config{Index: IndexConfig{Languages: []string{"python"}}}
	assert.True(t, cfg.IndexesLanguage("python"))
	assert.False(t, cfg.IndexesLanguage("go"))
}
