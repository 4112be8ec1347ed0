//nolint:testpackage // Testing internal config requires same package access
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: classifier
  version: "2.1.0"
  port: 9090
  concurrency: 4
database:
  host: db.internal
  port: 5433
elasticsearch:
  url: http://es.internal:9200
logging:
  level: debug
  format: console
classification:
  reputation:
    enabled: true
    default_score: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", cfg.Service.Version)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, 4, cfg.Service.Concurrency)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "http://es.internal:9200", cfg.Elasticsearch.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Classification.Reputation.Enabled)
	assert.Equal(t, 60, cfg.Classification.Reputation.DefaultScore)
}

func TestLoad_DefaultsFillGaps(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: classifier
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, defaultServicePort, cfg.Service.Port)
	assert.Equal(t, defaultConcurrency, cfg.Service.Concurrency)
	assert.Equal(t, defaultBatchSize, cfg.Service.BatchSize)
	assert.Equal(t, defaultPollIntervalSec*time.Second, cfg.Service.PollInterval)
	assert.Equal(t, defaultDBHost, cfg.Database.Host)
	assert.Equal(t, defaultESURL, cfg.Elasticsearch.URL)
	assert.Equal(t, defaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, defaultReputationScore, cfg.Classification.Reputation.DefaultScore)
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	path := writeConfigFile(t, `
service:
  port: 9090
database:
  host: db.internal
`)

	t.Setenv("CLASSIFIER_PORT", "7777")
	t.Setenv("POSTGRES_HOST", "env-host")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Service.Port)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "service: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, defaultServiceName, cfg.Service.Name)
	assert.Equal(t, defaultServicePort, cfg.Service.Port)
	assert.Equal(t, defaultDBPort, cfg.Database.Port)
	assert.Equal(t, defaultESMaxRetries, cfg.Elasticsearch.MaxRetries)
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/classifier/config.yml")
	assert.Equal(t, "/etc/classifier/config.yml", GetConfigPath("config.yml"))
}

func TestParseBool(t *testing.T) {
	for _, truthy := range []string{"true", "TRUE", "1", "yes", " Yes "} {
		assert.True(t, parseBool(truthy), "parseBool(%q)", truthy)
	}
	for _, falsy := range []string{"false", "0", "no", "", "maybe"} {
		assert.False(t, parseBool(falsy), "parseBool(%q)", falsy)
	}
}
