package bootstrap

import (
	"context"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/partypulse/classifier/internal/config"
	"github.com/partypulse/classifier/internal/logging"
	"github.com/partypulse/classifier/internal/storage"
)

// SetupElasticsearch creates optional Elasticsearch storage for event polling
// and re-classification. Returns nil if ES is unavailable; the HTTP API can
// still classify events pushed to it directly.
func SetupElasticsearch(cfg *config.Config, logger logging.Logger) *storage.ElasticsearchStorage {
	esConfig := es.Config{
		Addresses:  []string{cfg.Elasticsearch.URL},
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
	}

	esClient, err := es.NewClient(esConfig)
	if err != nil {
		logger.Warn("Failed to create Elasticsearch client", logging.Error(err))
		return nil
	}

	esStorage := storage.NewElasticsearchStorage(esClient)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Elasticsearch.Timeout)
	defer cancel()
	if err := esStorage.TestConnection(ctx); err != nil {
		logger.Warn("Failed to verify Elasticsearch connection", logging.Error(err))
		logger.Info("Event polling will not be available")
		return nil
	}

	logger.Info("Elasticsearch connected successfully",
		logging.String("url", cfg.Elasticsearch.URL),
	)
	return esStorage
}
