package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, databaseDSNEnv, gnewsAPIKeyEnv, alphaVantageKeyEnv, slackWebhookEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0 6 * * *", cfg.Scheduler.CronExpression)
	assert.Equal(t, 3, cfg.Collectors.LookbackDays)
	assert.Equal(t, 7, cfg.Analytics.WindowDays)
	assert.Equal(t, 1.5, cfg.Analytics.VolumeRatio)
	assert.Equal(t, "data/ai_intel_clean.csv", cfg.Output.CSVPath)
	assert.Equal(t, "data/sent_alerts.json", cfg.Output.LedgerPath)
	assert.Contains(t, cfg.Filter.Keywords, "machine learning")
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scheduler:
  cronExpression: "30 7 * * *"
  timezone: "Europe/Berlin"
collectors:
  lookbackDays: 5
analytics:
  volumeRatio: 2.0
filter:
  keywords: ["robotics"]
`), 0o644))
	t.Setenv(configPathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "30 7 * * *", cfg.Scheduler.CronExpression)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
	assert.Equal(t, 5, cfg.Collectors.LookbackDays)
	assert.Equal(t, 2.0, cfg.Analytics.VolumeRatio)
	assert.Equal(t, []string{"robotics"}, cfg.Filter.Keywords)

	// Untouched sections keep their defaults.
	assert.Equal(t, 30, cfg.Collectors.RequestTimeoutSeconds)
	assert.Equal(t, 0.2, cfg.Analytics.SentimentDrop)
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  dsn: "postgres://file"
`), 0o644))
	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "postgres://env")
	t.Setenv(slackWebhookEnv, "https://hooks.slack.com/services/T/B/X")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", cfg.Notifications.Slack.WebhookURL)
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analytics:
  volumeRatio: 0.5
`), 0o644))
	t.Setenv(configPathEnv, path)

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	t.Setenv(configPathEnv, path)

	_, err := Load()
	require.Error(t, err)
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scheduler:
  timezone: "Mars/Olympus"
`), 0o644))
	t.Setenv(configPathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}
