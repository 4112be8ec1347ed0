package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/partypulse/classifier/internal/api"
	"github.com/partypulse/classifier/internal/classifier"
	"github.com/partypulse/classifier/internal/config"
	"github.com/partypulse/classifier/internal/ingestion"
	"github.com/partypulse/classifier/internal/logging"
	"github.com/partypulse/classifier/internal/processor"
	"github.com/partypulse/classifier/internal/storage"
	"github.com/partypulse/classifier/internal/telemetry"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB        *sqlx.DB
	Handler   *api.Handler
	Server    *api.Server
	Telemetry *telemetry.Provider
}

// ProcessorComponents holds all components needed for the polling processor.
type ProcessorComponents struct {
	DB        *sqlx.DB
	Poller    *processor.RateLimitedPoller
	Telemetry *telemetry.Provider
}

// dbPinger adapts *sqlx.DB to the api.Pinger interface.
type dbPinger struct {
	db *sqlx.DB
}

func (p *dbPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// esPinger adapts ElasticsearchStorage to the api.Pinger interface.
type esPinger struct {
	es *storage.ElasticsearchStorage
}

func (p *esPinger) Ping(ctx context.Context) error {
	return p.es.TestConnection(ctx)
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(cfg *config.Config, logger logging.Logger) (*HTTPComponents, error) {
	dbComps, err := SetupDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	esStorage := SetupElasticsearch(cfg, logger)
	tp := telemetry.NewProvider()
	kv := logging.NewAdapter(logger)

	classifierInstance, err := buildClassifier(cfg, dbComps, kv, tp, logger)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, err
	}

	batchProcessor := processor.NewBatchProcessor(classifierInstance, cfg.Service.Concurrency, kv)
	logger.Info("Batch processor initialized", logging.Int("concurrency", cfg.Service.Concurrency))

	registry := ingestion.NewRegistry(kv)

	handlerConfig := api.HandlerConfig{
		Classifier:     classifierInstance,
		BatchProcessor: batchProcessor,
		Registry:       registry,
		RulesRepo:      dbComps.RulesRepo,
		ReputationRepo: dbComps.ReputationRepo,
		HistoryRepo:    dbComps.HistoryRepo,
		DBPinger:       &dbPinger{db: dbComps.DB},
		Logger:         kv,
		Version:        cfg.Service.Version,
	}
	if esStorage != nil {
		handlerConfig.ESPinger = &esPinger{es: esStorage}
	}
	handler := api.NewHandler(handlerConfig)

	serverConfig := api.ServerConfig{
		Port:         cfg.Service.Port,
		ReadTimeout:  defaultHTTPTimeout,
		WriteTimeout: defaultHTTPTimeout,
		Debug:        cfg.Service.Debug,
	}
	server := api.NewServer(handler, tp.Handler(), serverConfig, logger)

	return &HTTPComponents{
		DB:        dbComps.DB,
		Handler:   handler,
		Server:    server,
		Telemetry: tp,
	}, nil
}

// NewProcessorComponents creates all components for the polling processor.
// Elasticsearch is required here; the processor has nothing to poll without it.
func NewProcessorComponents(cfg *config.Config, logger logging.Logger) (*ProcessorComponents, error) {
	dbComps, err := SetupDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	esStorage := SetupElasticsearch(cfg, logger)
	if esStorage == nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("elasticsearch is required for the processor: %s unreachable", cfg.Elasticsearch.URL)
	}

	tp := telemetry.NewProvider()
	kv := logging.NewAdapter(logger)

	registry := ingestion.NewRegistry(kv)
	if err := esStorage.EnsureEventIndices(context.Background(), registry.Providers()); err != nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("ensure event indices: %w", err)
	}

	classifierInstance, err := buildClassifier(cfg, dbComps, kv, tp, logger)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, err
	}

	batchProcessor := processor.NewBatchProcessor(classifierInstance, cfg.Service.Concurrency, kv)
	dbAdapter := storage.NewDatabaseAdapterWithLogger(dbComps.HistoryRepo, kv)

	poller := processor.NewPoller(esStorage, dbAdapter, batchProcessor, kv, processor.PollerConfig{
		BatchSize:    cfg.Service.BatchSize,
		PollInterval: cfg.Service.PollInterval,
	})
	rateLimitedPoller := processor.NewRateLimitedPoller(poller, cfg.Service.RatePerSecond, kv)

	logger.Info("Processor initialized",
		logging.Int("batch_size", cfg.Service.BatchSize),
		logging.Duration("poll_interval", cfg.Service.PollInterval),
		logging.Int("rate_per_second", cfg.Service.RatePerSecond),
	)

	return &ProcessorComponents{
		DB:        dbComps.DB,
		Poller:    rateLimitedPoller,
		Telemetry: tp,
	}, nil
}

// HTTPShutdownTimeout returns the timeout for HTTP server graceful shutdown.
func HTTPShutdownTimeout() time.Duration {
	return defaultHTTPTimeout
}

// buildClassifier loads enabled tag rules from the database and assembles
// the classifier with its rule engine and reputation scorer.
func buildClassifier(
	cfg *config.Config,
	dbComps *DatabaseComponents,
	kv *logging.Adapter,
	tp *telemetry.Provider,
	logger logging.Logger,
) (*classifier.Classifier, error) {
	enabledOnly := true
	rules, err := dbComps.RulesRepo.List(context.Background(), &enabledOnly)
	if err != nil {
		return nil, fmt.Errorf("load tag rules: %w", err)
	}
	logger.Info("Tag rules loaded from database", logging.Int("count", len(rules)))

	classifierConfig := classifier.Config{
		Version:           cfg.Service.Version,
		UpdateProviderRep: cfg.Classification.Reputation.UpdateOnEachClassification,
		ReputationConfig: classifier.ProviderReputationConfig{
			DefaultScore:               cfg.Classification.Reputation.DefaultScore,
			UpdateOnEachClassification: cfg.Classification.Reputation.UpdateOnEachClassification,
			JunkThreshold:              cfg.Classification.Reputation.JunkThreshold,
			MinEventsForTrust:          cfg.Classification.Reputation.MinEventsForTrust,
			ReputationDecayRate:        cfg.Classification.Reputation.DecayRate,
		},
	}

	tagEngine := classifier.NewTagRuleEngine(rules, kv, tp)
	classifierInstance := classifier.NewClassifier(kv, rules, dbComps.ReputationRepo, tagEngine, classifierConfig)
	logger.Info("Classifier initialized",
		logging.String("version", classifierConfig.Version),
		logging.Int("rules_count", len(rules)),
	)
	return classifierInstance, nil
}
