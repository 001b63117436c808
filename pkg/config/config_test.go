package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("LYRICS_DIR", filepath.Join(root, "lyrics"))
	t.Setenv("DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("DB_FILE_NAME", "test.db")
	t.Setenv("NETEASE_API", "http://localhost:3000")
	t.Setenv("SCAN_DELAY", "500ms")
	t.Setenv("HTTP_TIMEOUT", "bogus")
	t.Setenv("CONVERT_T2S", "true")
	t.Setenv("APPLY_OFFSET", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "lyrics"), cfg.LyricsDir)
	assert.Equal(t, filepath.Join(root, "data", "test.db"), cfg.DBPath)
	assert.Equal(t, "http://localhost:3000", cfg.NeteaseAPI)
	assert.Equal(t, 500*time.Millisecond, cfg.ScanDelay)
	assert.Equal(t, httpTimeout, cfg.HTTPTimeout)
	assert.True(t, cfg.ConvertT2S)
	assert.False(t, cfg.ApplyOffset)
	assert.DirExists(t, cfg.LyricsDir)
	assert.DirExists(t, cfg.DataDir)
}

func TestParseBoolOrDefault(t *testing.T) {
	assert.True(t, parseBoolOrDefault("", true))
	assert.False(t, parseBoolOrDefault("0", true))
	assert.True(t, parseBoolOrDefault("yes", true))
}
