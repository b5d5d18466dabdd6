package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"insightiq/internal/analytics"
	"insightiq/internal/collector"
	"insightiq/internal/config"
	"insightiq/internal/infrastructure/collectors"
	"insightiq/internal/infrastructure/ledger"
	"insightiq/internal/infrastructure/scheduler"
	"insightiq/internal/infrastructure/slack"
	"insightiq/internal/infrastructure/storage"
	"insightiq/internal/logging"
	"insightiq/internal/ports"
	"insightiq/internal/processing"
	"insightiq/internal/usecase"
)

// Application wires config to the pipeline and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	db        *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := collector.NewClient(cfg.Collectors.RequestTimeout(), cfg.Collectors.MinRequestInterval())

	registry := collector.NewRegistry()
	registry.Register(collectors.NewGNews(cfg.Collectors.GNews.APIKey, client))
	registry.Register(collectors.NewHackerNews(client,
		cfg.Collectors.HackerNews.Pages, cfg.Collectors.HackerNews.HitsPerPage))
	registry.Register(collectors.NewArxiv(client, toArxivCategories(cfg.Collectors.Arxiv.Categories)))
	registry.Register(collectors.NewAlphaVantage(
		cfg.Collectors.AlphaVantage.APIKey, cfg.Collectors.AlphaVantage.Topics, client))

	source := collectors.NewSource(registry, cfg.Collectors.Query, cfg.Collectors.Lookback(),
		baseLogger.With("component", "source"))

	var db *sql.DB
	var repository ports.RecordRepository
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		repository = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Slack.WebhookURL != "" {
		notifier = slack.NewNotifier(cfg.Notifications.Slack.WebhookURL)
	} else {
		baseLogger.Warn("slack webhook not configured; alert dispatch disabled")
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Normalizer: processing.NewNormalizer(),
		Filter:     processing.NewKeywordFilter(cfg.Filter.Keywords),
		Annotator:  processing.NewAnnotator(),
		Trends:     analytics.NewAggregator(cfg.Analytics.WindowDays),
		Detector: analytics.NewDetector(cfg.Analytics.VolumeRatio,
			cfg.Analytics.SentimentDrop, cfg.Analytics.MinDays),
		Writer:     storage.NewCSVWriter(cfg.Output.CSVPath),
		Repository: repository,
		Ledger:     ledger.NewFileLedger(cfg.Output.LedgerPath),
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler")),
		db:        db,
	}, nil
}

// RunOnce executes a single pipeline run.
func (a *Application) RunOnce(ctx context.Context) error {
	return a.pipeline.Run(ctx, time.Now().In(a.cfg.Scheduler.Location()))
}

// Run starts the scheduler and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func toArxivCategories(cfg []config.CategoryConfig) []collectors.ArxivCategory {
	categories := make([]collectors.ArxivCategory, 0, len(cfg))
	for _, cat := range cfg {
		categories = append(categories, collectors.ArxivCategory{Name: cat.Name, URL: cat.URL})
	}
	return categories
}
