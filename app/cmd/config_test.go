package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHelpers(t *testing.T) {
	data := map[string]interface{}{
		"model": "gpt-4o-mini",
	}
	value, ok := getConfigValue(data, "model")
	require.True(t, ok)
	require.Equal(t, "gpt-4o-mini", value)

	require.NoError(t, setConfigValue(data, "model", "gpt-4o"))
	value, ok = getConfigValue(data, "model")
	require.True(t, ok)
	require.Equal(t, "gpt-4o", value)

	require.NoError(t, setConfigValue(data, "limits.max_round_trips", 5))
	value, ok = getConfigValue(data, "limits.max_round_trips")
	require.True(t, ok)
	require.Equal(t, 5, value)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, int64(7), parseValue("7"))
	assert.Equal(t, 0.5, parseValue("0.5"))
	assert.Equal(t, "facts", parseValue("facts"))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4o\nanswer_mode: links\nmax_round_trips: 4\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "links", cfg.AnswerMode)
	assert.Equal(t, 4, cfg.MaxRoundTrips)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Model)
}

func TestWriteAndReadConfigMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", configFileName)
	data := map[string]interface{}{"answer_mode": "summary"}
	require.NoError(t, writeConfigMap(path, data))

	read, err := readConfigMap(path)
	require.NoError(t, err)
	assert.Equal(t, "summary", read["answer_mode"])
}
