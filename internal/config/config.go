package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv      = "INSIGHTIQ_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	gnewsAPIKeyEnv     = "GNEWS_API_KEY"
	alphaVantageKeyEnv = "ALPHAVANTAGE_API_KEY"
	slackWebhookEnv    = "SLACK_WEBHOOK_URL"
)

// Config holds all settings required across the application. It is
// constructed once at process start and passed by reference; core logic
// never reads the environment.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Collectors    CollectorsConfig   `yaml:"collectors"`
	Filter        FilterConfig       `yaml:"filter"`
	Analytics     AnalyticsConfig    `yaml:"analytics"`
	Output        OutputConfig       `yaml:"output"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when pipeline runs execute.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression" validate:"required"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// CollectorsConfig groups settings shared by and specific to the source
// adapters.
type CollectorsConfig struct {
	Query                  string             `yaml:"query" validate:"required"`
	LookbackDays           int                `yaml:"lookbackDays" validate:"min=1"`
	RequestTimeoutSeconds  int                `yaml:"requestTimeoutSeconds" validate:"min=1"`
	MinRequestIntervalMSec int                `yaml:"minRequestIntervalMillis" validate:"min=0"`
	GNews                  GNewsConfig        `yaml:"gnews"`
	AlphaVantage           AlphaVantageConfig `yaml:"alphavantage"`
	HackerNews             HackerNewsConfig   `yaml:"hackernews"`
	Arxiv                  ArxivConfig        `yaml:"arxiv"`
}

// Lookback returns the collection window as a duration.
func (c CollectorsConfig) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// RequestTimeout returns the per-HTTP-call timeout.
func (c CollectorsConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// MinRequestInterval returns the advisory delay between calls to the same
// API.
func (c CollectorsConfig) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMSec) * time.Millisecond
}

// GNewsConfig wires the GNews API credentials.
type GNewsConfig struct {
	APIKey string `yaml:"apiKey"`
}

// AlphaVantageConfig wires the Alpha Vantage credentials and topics.
type AlphaVantageConfig struct {
	APIKey string `yaml:"apiKey"`
	Topics string `yaml:"topics"`
}

// HackerNewsConfig controls Algolia paging.
type HackerNewsConfig struct {
	Pages       int `yaml:"pages"`
	HitsPerPage int `yaml:"hitsPerPage"`
}

// ArxivConfig lists the category pages to scrape.
type ArxivConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig holds one concrete listing endpoint.
type CategoryConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FilterConfig carries the domain keyword set.
type FilterConfig struct {
	Keywords []string `yaml:"keywords" validate:"min=1"`
}

// AnalyticsConfig carries the trend and anomaly policy. The thresholds
// are tunable; the defaults are the values the feed has been operated
// with.
type AnalyticsConfig struct {
	WindowDays    int     `yaml:"windowDays" validate:"min=1"`
	VolumeRatio   float64 `yaml:"volumeRatio" validate:"gt=1"`
	SentimentDrop float64 `yaml:"sentimentDrop" validate:"gt=0"`
	MinDays       int     `yaml:"minDays" validate:"min=1"`
}

// OutputConfig describes the persisted artifacts.
type OutputConfig struct {
	CSVPath    string `yaml:"csvPath" validate:"required"`
	LedgerPath string `yaml:"ledgerPath" validate:"required"`
}

// DatabaseConfig describes optional Postgres persistence; an empty DSN
// disables the repository.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Slack SlackConfig `yaml:"slack"`
}

// SlackConfig wires the incoming webhook; empty disables alert dispatch.
type SlackConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// Load reads YAML configuration (if present), applies environment
// overrides, and validates the result.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(gnewsAPIKeyEnv); v != "" {
		c.Collectors.GNews.APIKey = v
	}
	if v := os.Getenv(alphaVantageKeyEnv); v != "" {
		c.Collectors.AlphaVantage.APIKey = v
	}
	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Notifications.Slack.WebhookURL = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Collectors.Query != "" {
		base.Collectors.Query = override.Collectors.Query
	}
	if override.Collectors.LookbackDays > 0 {
		base.Collectors.LookbackDays = override.Collectors.LookbackDays
	}
	if override.Collectors.RequestTimeoutSeconds > 0 {
		base.Collectors.RequestTimeoutSeconds = override.Collectors.RequestTimeoutSeconds
	}
	if override.Collectors.MinRequestIntervalMSec > 0 {
		base.Collectors.MinRequestIntervalMSec = override.Collectors.MinRequestIntervalMSec
	}
	if override.Collectors.GNews.APIKey != "" {
		base.Collectors.GNews = override.Collectors.GNews
	}
	if override.Collectors.AlphaVantage.APIKey != "" || override.Collectors.AlphaVantage.Topics != "" {
		base.Collectors.AlphaVantage = override.Collectors.AlphaVantage
	}
	if override.Collectors.HackerNews.Pages > 0 {
		base.Collectors.HackerNews = override.Collectors.HackerNews
	}
	if len(override.Collectors.Arxiv.Categories) > 0 {
		base.Collectors.Arxiv = override.Collectors.Arxiv
	}

	if len(override.Filter.Keywords) > 0 {
		base.Filter = override.Filter
	}

	if override.Analytics.WindowDays > 0 {
		base.Analytics.WindowDays = override.Analytics.WindowDays
	}
	if override.Analytics.VolumeRatio > 0 {
		base.Analytics.VolumeRatio = override.Analytics.VolumeRatio
	}
	if override.Analytics.SentimentDrop > 0 {
		base.Analytics.SentimentDrop = override.Analytics.SentimentDrop
	}
	if override.Analytics.MinDays > 0 {
		base.Analytics.MinDays = override.Analytics.MinDays
	}

	if override.Output.CSVPath != "" {
		base.Output.CSVPath = override.Output.CSVPath
	}
	if override.Output.LedgerPath != "" {
		base.Output.LedgerPath = override.Output.LedgerPath
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Slack.WebhookURL != "" {
		base.Notifications = override.Notifications
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			CronExpression: "0 6 * * *",
			Timezone:       defaultTimezone,
			location:       tz,
		},
		Collectors: CollectorsConfig{
			Query:                  `("artificial intelligence" OR "machine learning" OR "deep learning" OR "AI" OR "LLM")`,
			LookbackDays:           3,
			RequestTimeoutSeconds:  30,
			MinRequestIntervalMSec: 300,
			AlphaVantage:           AlphaVantageConfig{Topics: "technology,artificial_intelligence"},
			HackerNews:             HackerNewsConfig{Pages: 2, HitsPerPage: 100},
			Arxiv: ArxivConfig{
				Categories: []CategoryConfig{
					{Name: "cs.AI", URL: "https://arxiv.org/list/cs.AI/recent"},
					{Name: "cs.LG", URL: "https://arxiv.org/list/cs.LG/recent"},
				},
			},
		},
		Filter: FilterConfig{
			Keywords: []string{
				"ai", "artificial intelligence", "machine learning", "deep learning",
				"neural network", "llm", "large language model", "chatgpt", "gpt",
				"transformer", "diffusion", "openai", "anthropic", "deepmind",
				"computer vision", "nlp", "natural language processing",
			},
		},
		Analytics: AnalyticsConfig{
			WindowDays:    7,
			VolumeRatio:   1.5,
			SentimentDrop: 0.2,
			MinDays:       7,
		},
		Output: OutputConfig{
			CSVPath:    "data/ai_intel_clean.csv",
			LedgerPath: "data/sent_alerts.json",
		},
	}
}
