// Package config provides configuration loading for the classifier
// service. YAML files with environment variable overrides.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName         = "classifier"
	defaultServiceVersion      = "1.0.0"
	defaultServicePort         = 8070
	defaultConcurrency         = 10
	defaultBatchSize           = 100
	defaultPollIntervalSec     = 30
	defaultRatePerSecond       = 50
	defaultRateBurst           = 100
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBUser              = "postgres"
	defaultDBName              = "classifier"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 25
	defaultDBMaxIdleConns      = 5
	defaultESURL               = "http://localhost:9200"
	defaultESMaxRetries        = 3
	defaultESTimeoutSec        = 30
	defaultESRawSuffix         = "_raw_events"
	defaultESClassifiedSuffix  = "_classified_events"
	defaultLogLevel            = "info"
	defaultLogFormat           = "json"
	defaultReputationScore     = 50
	defaultJunkThreshold       = 30
	defaultMinEventsForTrust   = 10
	defaultReputationDecayRate = 0.1
)

// Config holds all configuration for the classifier service.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Database       DatabaseConfig       `yaml:"database"`
	Elasticsearch  ElasticsearchConfig  `yaml:"elasticsearch"`
	Logging        LoggingConfig        `yaml:"logging"`
	Classification ClassificationConfig `yaml:"classification"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name          string        `yaml:"name"`
	Version       string        `yaml:"version"`
	Port          int           `env:"CLASSIFIER_PORT"        yaml:"port"`
	Debug         bool          `env:"APP_DEBUG"              yaml:"debug"`
	Enabled       bool          `yaml:"enabled"`
	Concurrency   int           `env:"CLASSIFIER_CONCURRENCY" yaml:"concurrency"`
	BatchSize     int           `yaml:"batch_size"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	RatePerSecond int           `yaml:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ElasticsearchConfig holds Elasticsearch configuration.
type ElasticsearchConfig struct {
	URL                    string        `env:"ELASTICSEARCH_URL" yaml:"url"`
	Username               string        `yaml:"username"`
	Password               string        `yaml:"password"`
	MaxRetries             int           `yaml:"max_retries"`
	Timeout                time.Duration `yaml:"timeout"`
	RawEventsSuffix        string        `yaml:"raw_events_suffix"`
	ClassifiedEventsSuffix string        `yaml:"classified_events_suffix"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
	Output string `yaml:"output"`
}

// ClassificationConfig holds classification settings.
type ClassificationConfig struct {
	Reputation ReputationConfig `yaml:"reputation"`
	TagRules   TagRulesConfig   `yaml:"tag_rules"`
}

// ReputationConfig holds provider reputation settings.
type ReputationConfig struct {
	Enabled                    bool    `yaml:"enabled"`
	DefaultScore               int     `yaml:"default_score"`
	UpdateOnEachClassification bool    `yaml:"update_on_each_classification"`
	JunkThreshold              int     `yaml:"junk_threshold"`
	MinEventsForTrust          int     `yaml:"min_events_for_trust"`
	DecayRate                  float64 `yaml:"decay_rate"`
}

// TagRulesConfig holds operator tag rule settings.
type TagRulesConfig struct {
	Enabled        bool          `yaml:"enabled"`
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setLoggingDefaults(&cfg.Logging)
	setClassificationDefaults(&cfg.Classification)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.BatchSize == 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.PollInterval == 0 {
		s.PollInterval = defaultPollIntervalSec * time.Second
	}
	if s.RatePerSecond == 0 {
		s.RatePerSecond = defaultRatePerSecond
	}
	if s.RateBurst == 0 {
		s.RateBurst = defaultRateBurst
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.MaxRetries == 0 {
		e.MaxRetries = defaultESMaxRetries
	}
	if e.Timeout == 0 {
		e.Timeout = defaultESTimeoutSec * time.Second
	}
	if e.RawEventsSuffix == "" {
		e.RawEventsSuffix = defaultESRawSuffix
	}
	if e.ClassifiedEventsSuffix == "" {
		e.ClassifiedEventsSuffix = defaultESClassifiedSuffix
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setClassificationDefaults(c *ClassificationConfig) {
	if c.Reputation.DefaultScore == 0 {
		c.Reputation.DefaultScore = defaultReputationScore
	}
	if c.Reputation.JunkThreshold == 0 {
		c.Reputation.JunkThreshold = defaultJunkThreshold
	}
	if c.Reputation.MinEventsForTrust == 0 {
		c.Reputation.MinEventsForTrust = defaultMinEventsForTrust
	}
	if c.Reputation.DecayRate == 0 {
		c.Reputation.DecayRate = defaultReputationDecayRate
	}
}
