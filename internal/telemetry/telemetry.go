// Package telemetry provides OpenTelemetry instrumentation for the classifier service.
// It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "classifier"

// Metrics holds all classifier Prometheus metrics
type Metrics struct {
	// Processing metrics
	EventsProcessed    *prometheus.CounterVec
	EventsFailed       *prometheus.CounterVec
	ProcessingDuration *prometheus.HistogramVec
	BatchSize          prometheus.Histogram

	// Party detection distribution
	PartyDetections *prometheus.CounterVec
	NonPartyEvents  *prometheus.CounterVec

	// Rule engine metrics
	RuleMatchDuration prometheus.Histogram
	RulesEvaluated    prometheus.Counter
	RulesMatched      prometheus.Counter

	// Backpressure metrics
	QueueDepth    prometheus.Gauge
	ActiveWorkers prometheus.Gauge
	WorkDropped   prometheus.Counter
	ThrottleCount prometheus.Counter

	// Lag metrics (freshness SLO)
	PollerLag         prometheus.Histogram
	ClassificationLag prometheus.Histogram
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	metrics := initMetrics()
	tracer := otel.Tracer(serviceName)

	return &Provider{
		Tracer:  tracer,
		Metrics: metrics,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initProcessingMetrics(m)
	initPartyMetrics(m)
	initRuleEngineMetrics(m)
	initBackpressureMetrics(m)
	initLagMetrics(m)
	return m
}

func initProcessingMetrics(m *Metrics) {
	m.EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_events_processed_total",
		Help: "Total events successfully classified",
	}, []string{"provider"})

	m.EventsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_events_failed_total",
		Help: "Total events that failed classification",
	}, []string{"provider", "error_code"})

	m.ProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classifier_processing_duration_seconds",
		Help:    "Time to classify a single event",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"provider"})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classifier_batch_size",
		Help:    "Number of events per batch",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500},
	})
}

func initPartyMetrics(m *Metrics) {
	m.PartyDetections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_party_detections_total",
		Help: "Total events classified as parties, by subcategory",
	}, []string{"subcategory"})

	m.NonPartyEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_non_party_events_total",
		Help: "Total events classified as non-party",
	}, []string{"provider"})
}

func initRuleEngineMetrics(m *Metrics) {
	m.RuleMatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classifier_rule_match_duration_seconds",
		Help:    "Time spent in rule matching (Aho-Corasick)",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.RulesEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_rules_evaluated_total",
		Help: "Total rule evaluations",
	})

	m.RulesMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_rules_matched_total",
		Help: "Total rules that matched",
	})
}

func initBackpressureMetrics(m *Metrics) {
	m.QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classifier_queue_depth",
		Help: "Current pending events in work queue",
	})

	m.ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classifier_active_workers",
		Help: "Currently active worker goroutines",
	})

	m.WorkDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_work_dropped_total",
		Help: "Work items dropped due to queue full",
	})

	m.ThrottleCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_throttle_count_total",
		Help: "Number of times poller was throttled due to backpressure",
	})
}

func initLagMetrics(m *Metrics) {
	m.PollerLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classifier_poller_lag_seconds",
		Help:    "Time between event fetch and classification start",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
	})

	m.ClassificationLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classifier_classification_lag_seconds",
		Help:    "End-to-end lag from provider fetch to classified",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
	})
}

// RecordClassification records metrics for a single classification
func (p *Provider) RecordClassification(ctx context.Context, provider string, success bool, duration time.Duration) {
	if success {
		p.Metrics.EventsProcessed.WithLabelValues(provider).Inc()
	}
	p.Metrics.ProcessingDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordPartyDetection increments the party counter for a subcategory
func (p *Provider) RecordPartyDetection(ctx context.Context, subcategory string) {
	label := subcategory
	if label == "" {
		label = "general"
	}
	p.Metrics.PartyDetections.WithLabelValues(label).Inc()
}

// RecordNonParty increments the non-party counter for a provider
func (p *Provider) RecordNonParty(ctx context.Context, provider string) {
	p.Metrics.NonPartyEvents.WithLabelValues(provider).Inc()
}

// RecordClassificationFailure records a failed classification with error code
func (p *Provider) RecordClassificationFailure(ctx context.Context, provider, errorCode string) {
	p.Metrics.EventsFailed.WithLabelValues(provider, errorCode).Inc()
}

// RecordRuleMatch records rule engine metrics
func (p *Provider) RecordRuleMatch(ctx context.Context, duration time.Duration, rulesEvaluated, rulesMatched int) {
	p.Metrics.RuleMatchDuration.Observe(duration.Seconds())
	p.Metrics.RulesEvaluated.Add(float64(rulesEvaluated))
	p.Metrics.RulesMatched.Add(float64(rulesMatched))
}

// RecordPollerLag records the freshness lag
func (p *Provider) RecordPollerLag(ctx context.Context, fetchedAt time.Time) {
	lag := time.Since(fetchedAt)
	p.Metrics.PollerLag.Observe(lag.Seconds())
}

// RecordClassificationLag records end-to-end lag
func (p *Provider) RecordClassificationLag(ctx context.Context, fetchedAt time.Time) {
	lag := time.Since(fetchedAt)
	p.Metrics.ClassificationLag.Observe(lag.Seconds())
}

// SetQueueDepth sets the current queue depth
func (p *Provider) SetQueueDepth(depth int) {
	p.Metrics.QueueDepth.Set(float64(depth))
}

// SetActiveWorkers sets the current active worker count
func (p *Provider) SetActiveWorkers(count int) {
	p.Metrics.ActiveWorkers.Set(float64(count))
}

// IncrementWorkDropped increments the dropped work counter
func (p *Provider) IncrementWorkDropped() {
	p.Metrics.WorkDropped.Inc()
}

// IncrementThrottleCount increments the throttle counter
func (p *Provider) IncrementThrottleCount() {
	p.Metrics.ThrottleCount.Inc()
}

// RecordBatchSize records the size of a processed batch
func (p *Provider) RecordBatchSize(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
