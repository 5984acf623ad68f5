package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.ArchivePath)
	assert.Equal(t, "", cfg.ExportDir)
	assert.Equal(t, "kiroku", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.TopN)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("KIROKU_ARCHIVE_PATH", "/tmp/kiroku.db")
	t.Setenv("KIROKU_EXPORT_DIR", "/tmp/exports")
	t.Setenv("KIROKU_LOG_LEVEL", "debug")
	t.Setenv("KIROKU_TOP_N", "5")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kiroku.db", cfg.ArchivePath)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.TopN)
	assert.True(t, cfg.OTELInsecure)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("KIROKU_TOP_N", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.TopN)
}

func TestValidate(t *testing.T) {
	cfg := Config{LogLevel: "info", TopN: 10}
	require.NoError(t, cfg.Validate())

	cfg.TopN = 0
	assert.Error(t, cfg.Validate())

	cfg = Config{LogLevel: "verbose", TopN: 1}
	assert.Error(t, cfg.Validate())
}
