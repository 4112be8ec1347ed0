package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/partypulse/classifier/internal/classifier"
	"github.com/partypulse/classifier/internal/database"
	"github.com/partypulse/classifier/internal/domain"
	"github.com/partypulse/classifier/internal/ingestion"
	"github.com/partypulse/classifier/internal/processor"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 100
	maxImportBytes  = 4 << 20 // 4 MiB payload ceiling for import requests
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler handles HTTP requests for the classifier API
type Handler struct {
	classifier     *classifier.Classifier
	batchProcessor *processor.BatchProcessor
	registry       *ingestion.Registry
	rulesRepo      *database.RulesRepository
	reputationRepo *database.ReputationRepository
	historyRepo    *database.HistoryRepository
	dbPinger       Pinger
	esPinger       Pinger
	logger         Logger
	version        string
}

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HandlerConfig carries the handler's collaborators.
type HandlerConfig struct {
	Classifier     *classifier.Classifier
	BatchProcessor *processor.BatchProcessor
	Registry       *ingestion.Registry
	RulesRepo      *database.RulesRepository
	ReputationRepo *database.ReputationRepository
	HistoryRepo    *database.HistoryRepository
	DBPinger       Pinger
	ESPinger       Pinger
	Logger         Logger
	Version        string
}

// NewHandler creates a new API handler
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		classifier:     cfg.Classifier,
		batchProcessor: cfg.BatchProcessor,
		registry:       cfg.Registry,
		rulesRepo:      cfg.RulesRepo,
		reputationRepo: cfg.ReputationRepo,
		historyRepo:    cfg.HistoryRepo,
		dbPinger:       cfg.DBPinger,
		esPinger:       cfg.ESPinger,
		logger:         cfg.Logger,
		version:        cfg.Version,
	}
}

// ClassifyRequest represents a single classification request
type ClassifyRequest struct {
	Event *domain.RawEvent `json:"event" binding:"required"`
}

// ClassifyResponse represents a classification response
type ClassifyResponse struct {
	Result *domain.EventClassification `json:"result"`
	Error  string                      `json:"error,omitempty"`
}

// BatchClassifyRequest represents a batch classification request
type BatchClassifyRequest struct {
	Events []*domain.RawEvent `json:"events" binding:"required,min=1,max=100"`
}

// BatchClassifyResponse represents a batch classification response
type BatchClassifyResponse struct {
	Results []*processor.ProcessResult `json:"results"`
	Total   int                        `json:"total"`
	Success int                        `json:"success"`
	Failed  int                        `json:"failed"`
}

// Classify handles POST /api/v1/classify
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid classification request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Classifying event",
		"event_id", req.Event.ID,
		"provider", req.Event.Provider,
	)

	result, err := h.classifier.Classify(c.Request.Context(), req.Event)
	if err != nil {
		h.logger.Error("Classification failed",
			"event_id", req.Event.ID,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, ClassifyResponse{
			Error: err.Error(),
		})
		return
	}

	h.logger.Info("Event classified successfully",
		"event_id", result.EventID,
		"is_party", result.IsParty,
		"party_subcategory", result.PartySubcategory,
		"party_score", result.PartyScore,
	)

	c.JSON(http.StatusOK, ClassifyResponse{
		Result: result,
	})
}

// ClassifyBatch handles POST /api/v1/classify/batch
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid batch classification request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Batch classifying events", "batch_size", len(req.Events))

	results, err := h.batchProcessor.Process(c.Request.Context(), req.Events)
	if err != nil {
		h.logger.Error("Batch classification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	success := 0
	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
		} else {
			success++
		}
	}

	h.logger.Info("Batch classification completed",
		"total", len(results),
		"success", success,
		"failed", failed,
	)

	c.JSON(http.StatusOK, BatchClassifyResponse{
		Results: results,
		Total:   len(results),
		Success: success,
		Failed:  failed,
	})
}

// ImportEvents handles POST /api/v1/events/import/:provider
func (h *Handler) ImportEvents(c *gin.Context) {
	provider := c.Param("provider")

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		h.logger.Warn("Failed to read import payload", "provider", provider, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	events, err := h.registry.Parse(provider, payload)
	if err != nil {
		h.logger.Warn("Failed to parse provider payload", "provider", provider, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(events) == 0 {
		c.JSON(http.StatusOK, ImportResponse{
			Provider: provider,
			Results:  []*domain.ClassifiedEvent{},
		})
		return
	}

	h.logger.Info("Importing provider events", "provider", provider, "count", len(events))

	results, err := h.batchProcessor.Process(c.Request.Context(), events)
	if err != nil {
		h.logger.Error("Import classification failed", "provider", provider, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	classified := make([]*domain.ClassifiedEvent, 0, len(results))
	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			continue
		}
		classified = append(classified, result.ClassifiedEvent)
	}

	c.JSON(http.StatusOK, ImportResponse{
		Provider:   provider,
		Received:   len(events),
		Classified: len(classified),
		Failed:     failed,
		Results:    classified,
	})
}

// GetClassificationHistory handles GET /api/v1/classify/:event_id
func (h *Handler) GetClassificationHistory(c *gin.Context) {
	eventID := c.Param("event_id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id is required"})
		return
	}

	history, err := h.historyRepo.GetByEventID(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no classification found for event"})
			return
		}
		h.logger.Error("Failed to load classification history", "event_id", eventID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load classification"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// ListRules handles GET /api/v1/rules
func (h *Handler) ListRules(c *gin.Context) {
	h.logger.Debug("Listing tag rules")

	rules, err := h.rulesRepo.List(c.Request.Context(), nil)
	if err != nil {
		h.logger.Error("Failed to list rules", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rules"})
		return
	}

	response := make([]RuleResponse, len(rules))
	for i, rule := range rules {
		response[i] = toRuleResponse(rule)
	}

	h.logger.Info("Rules listed successfully", "count", len(response))

	c.JSON(http.StatusOK, RulesListResponse{
		Rules: response,
		Total: len(response),
	})
}

// CreateRule handles POST /api/v1/rules
func (h *Handler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create rule request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Creating tag rule", "tag", req.Tag)

	rule := &domain.TagRule{
		RuleName:      fmt.Sprintf("%s_tag", req.Tag),
		Tag:           req.Tag,
		Keywords:      req.Keywords,
		MinConfidence: defaultRuleMinConfidence,
		Enabled:       req.Enabled,
		Priority:      priorityStringToInt(req.Priority),
	}

	if err := h.rulesRepo.Create(c.Request.Context(), rule); err != nil {
		h.logger.Error("Failed to create rule", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		return
	}

	h.reloadTagRules(c.Request.Context())

	h.logger.Info("Rule created successfully", "id", rule.ID, "tag", rule.Tag)

	c.JSON(http.StatusCreated, toRuleResponse(rule))
}

// UpdateRule handles PUT /api/v1/rules/:id
func (h *Handler) UpdateRule(c *gin.Context) {
	ruleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
		return
	}

	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid update rule request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Updating tag rule", "id", ruleID, "tag", req.Tag)

	rule, err := h.rulesRepo.GetByID(c.Request.Context(), ruleID)
	if err != nil {
		h.logger.Error("Failed to get rule", "id", ruleID, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	rule.Tag = req.Tag
	rule.Keywords = req.Keywords
	rule.Priority = priorityStringToInt(req.Priority)
	rule.Enabled = req.Enabled
	rule.RuleName = fmt.Sprintf("%s_tag", req.Tag)

	if err := h.rulesRepo.Update(c.Request.Context(), rule); err != nil {
		h.logger.Error("Failed to update rule", "id", ruleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rule"})
		return
	}

	h.reloadTagRules(c.Request.Context())

	h.logger.Info("Rule updated successfully", "id", ruleID, "tag", rule.Tag)

	c.JSON(http.StatusOK, toRuleResponse(rule))
}

// DeleteRule handles DELETE /api/v1/rules/:id
func (h *Handler) DeleteRule(c *gin.Context) {
	ruleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
		return
	}

	h.logger.Info("Deleting tag rule", "id", ruleID)

	if err := h.rulesRepo.Delete(c.Request.Context(), ruleID); err != nil {
		h.logger.Error("Failed to delete rule", "id", ruleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rule"})
		return
	}

	h.reloadTagRules(c.Request.Context())

	h.logger.Info("Rule deleted successfully", "id", ruleID)

	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted successfully"})
}

// ListProviders handles GET /api/v1/providers
func (h *Handler) ListProviders(c *gin.Context) {
	filter := database.ReputationListFilter{
		Page:     defaultPage,
		PageSize: defaultPageSize,
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
	}

	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if sizeParam := c.Query("page_size"); sizeParam != "" {
		if s, err := strconv.Atoi(sizeParam); err == nil && s > 0 && s <= maxPageSize {
			filter.PageSize = s
		}
	}

	h.logger.Debug("Listing providers", "page", filter.Page, "page_size", filter.PageSize)

	providers, total, err := h.reputationRepo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list providers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load providers"})
		return
	}

	response := make([]ProviderReputationResponse, len(providers))
	for i, provider := range providers {
		response[i] = toProviderResponse(provider)
	}

	c.JSON(http.StatusOK, ProvidersListResponse{
		Providers: response,
		Total:     total,
		Page:      filter.Page,
		PerPage:   filter.PageSize,
	})
}

// GetProvider handles GET /api/v1/providers/:name
func (h *Handler) GetProvider(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider name is required"})
		return
	}

	provider, err := h.reputationRepo.GetProvider(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn("Provider not found", "provider", name)
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}
		h.logger.Error("Failed to get provider", "provider", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get provider"})
		return
	}

	c.JSON(http.StatusOK, toProviderResponse(provider))
}

// GetProviderStats handles GET /api/v1/providers/:name/stats
func (h *Handler) GetProviderStats(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider name is required"})
		return
	}

	stats, err := h.historyRepo.GetProviderStatsByName(c.Request.Context(), name)
	if err != nil {
		h.logger.Error("Failed to get provider stats", "provider", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get provider stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(c *gin.Context) {
	h.logger.Debug("Getting overall classification stats")

	stats, err := h.historyRepo.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get stats", "error", err)
		// Return empty stats instead of error to avoid breaking dashboard
		c.JSON(http.StatusOK, gin.H{
			"total_classified":       0,
			"party_events":           0,
			"avg_party_score":        0,
			"avg_completeness":       0,
			"avg_processing_time_ms": 0,
			"subcategories":          gin.H{},
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetSubcategoryStats handles GET /api/v1/stats/subcategories
func (h *Handler) GetSubcategoryStats(c *gin.Context) {
	stats, err := h.historyRepo.GetSubcategoryStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get subcategory stats", "error", err)
		c.JSON(http.StatusOK, gin.H{"subcategories": []gin.H{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subcategories": stats})
}

// GetProviderDistribution handles GET /api/v1/stats/providers
func (h *Handler) GetProviderDistribution(c *gin.Context) {
	stats, err := h.historyRepo.GetProviderStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get provider distribution", "error", err)
		c.JSON(http.StatusOK, gin.H{"providers": []gin.H{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"providers": stats})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "classifier",
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if h.dbPinger != nil {
		if err := h.dbPinger.Ping(c.Request.Context()); err != nil {
			checks["postgresql"] = err.Error()
			ready = false
		} else {
			checks["postgresql"] = "ok"
		}
	}

	if h.esPinger != nil {
		if err := h.esPinger.Ping(c.Request.Context()); err != nil {
			checks["elasticsearch"] = err.Error()
			ready = false
		} else {
			checks["elasticsearch"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}

	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}

// reloadTagRules reloads enabled tag rules from the database into the
// classifier's rule engine after any CRUD operation on rules.
func (h *Handler) reloadTagRules(ctx context.Context) {
	h.logger.Info("Reloading tag rules from database")

	rules, err := h.rulesRepo.List(ctx, ptr(true))
	if err != nil {
		h.logger.Error("Failed to reload rules from database", "error", err)
		return
	}

	ruleValues := make([]domain.TagRule, len(rules))
	for i, rule := range rules {
		ruleValues[i] = *rule
	}
	h.classifier.UpdateRules(ruleValues)

	h.logger.Info("Tag rules reloaded successfully", "count", len(rules))
}
