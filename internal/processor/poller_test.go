//nolint:testpackage // Testing internal processor requires same package access
package processor

import (
	"context"
	"sync"
	"testing"
	"time"
)

// mockLoggerWithCalls tracks log calls for testing
type mockLoggerWithCalls struct {
	debugCalls []logCall
	infoCalls  []logCall
	warnCalls  []logCall
	errorCalls []logCall
}

type logCall struct {
	msg           string
	keysAndValues []interface{}
}

func newMockLoggerWithCalls() *mockLoggerWithCalls {
	return &mockLoggerWithCalls{
		debugCalls: make([]logCall, 0),
		infoCalls:  make([]logCall, 0),
		warnCalls:  make([]logCall, 0),
		errorCalls: make([]logCall, 0),
	}
}

func (m *mockLoggerWithCalls) Debug(msg string, keysAndValues ...interface{}) {
	m.debugCalls = append(m.debugCalls, logCall{msg: msg, keysAndValues: keysAndValues})
}

func (m *mockLoggerWithCalls) Info(msg string, keysAndValues ...interface{}) {
	m.infoCalls = append(m.infoCalls, logCall{msg: msg, keysAndValues: keysAndValues})
}

func (m *mockLoggerWithCalls) Warn(msg string, keysAndValues ...interface{}) {
	m.warnCalls = append(m.warnCalls, logCall{msg: msg, keysAndValues: keysAndValues})
}

func (m *mockLoggerWithCalls) Error(msg string, keysAndValues ...interface{}) {
	m.errorCalls = append(m.errorCalls, logCall{msg: msg, keysAndValues: keysAndValues})
}

// getKV extracts a value from keysAndValues pairs by key name
func getKV(keysAndValues []interface{}, key string) (any, bool) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok && k == key {
			return keysAndValues[i+1], true
		}
	}
	return nil, false
}

func TestPoller_validateURL_ShortURL(t *testing.T) {
	logger := newMockLoggerWithCalls()
	poller := &Poller{logger: logger}

	url := "https://example.com/events/rooftop-sessions"
	result := poller.validateURL(url)

	if result != url {
		t.Errorf("expected URL to remain unchanged, got %q", result)
	}

	if len(logger.warnCalls) != 0 {
		t.Errorf("expected no warning for short URL, got %d warnings", len(logger.warnCalls))
	}
}

func TestPoller_validateURL_ExactMaxLength(t *testing.T) {
	logger := newMockLoggerWithCalls()
	poller := &Poller{logger: logger}

	// Create URL exactly at maxURLLength
	url := make([]byte, maxURLLength)
	for i := range url {
		url[i] = 'a'
	}
	urlStr := string(url)

	result := poller.validateURL(urlStr)

	if result != urlStr {
		t.Errorf("expected URL to remain unchanged at exact max length, got length %d", len(result))
	}

	if len(logger.warnCalls) != 0 {
		t.Errorf("expected no warning for URL at exact max length, got %d warnings", len(logger.warnCalls))
	}
}

func TestPoller_validateURL_LongURL(t *testing.T) {
	logger := newMockLoggerWithCalls()
	poller := &Poller{logger: logger}

	// Create URL longer than maxURLLength
	longURL := make([]byte, maxURLLength+100)
	for i := range longURL {
		longURL[i] = 'a'
	}
	urlStr := string(longURL)

	result := poller.validateURL(urlStr)

	if len(result) != maxURLLength {
		t.Errorf("expected truncated URL length %d, got %d", maxURLLength, len(result))
	}

	if len(logger.warnCalls) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(logger.warnCalls))
	}

	warnCall := logger.warnCalls[0]
	if warnCall.msg != "URL truncated for classification history" {
		t.Errorf("expected warning message 'URL truncated for classification history', got %q", warnCall.msg)
	}

	originalLength, foundOriginalLength := getKV(warnCall.keysAndValues, "original_length")
	if !foundOriginalLength {
		t.Error("expected warning to include original_length")
	} else if originalLength != len(urlStr) {
		t.Errorf("expected original_length %d, got %v", len(urlStr), originalLength)
	}
}

func TestPoller_validateURL_VeryLongURL(t *testing.T) {
	logger := newMockLoggerWithCalls()
	poller := &Poller{logger: logger}

	// Create a very long URL (5000 characters)
	veryLongURL := make([]byte, 5000)
	for i := range veryLongURL {
		veryLongURL[i] = 'b'
	}
	urlStr := string(veryLongURL)

	result := poller.validateURL(urlStr)

	if len(result) != maxURLLength {
		t.Errorf("expected truncated URL length %d, got %d", maxURLLength, len(result))
	}

	if len(logger.warnCalls) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(logger.warnCalls))
	}

	warnCall := logger.warnCalls[0]
	urlPreview, foundURLPreview := getKV(warnCall.keysAndValues, "url_preview")
	if !foundURLPreview {
		t.Error("expected warning to include url_preview")
	} else {
		urlPreviewStr, ok := urlPreview.(string)
		if !ok {
			t.Errorf("expected url_preview to be string, got %T", urlPreview)
		} else if len(urlPreviewStr) > urlPreviewLength {
			t.Errorf("expected url_preview length <= %d, got %d", urlPreviewLength, len(urlPreviewStr))
		}
	}
}

func TestPoller_validateURL_EmptyURL(t *testing.T) {
	logger := newMockLoggerWithCalls()
	poller := &Poller{logger: logger}

	result := poller.validateURL("")

	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}

	if len(logger.warnCalls) != 0 {
		t.Errorf("expected no warning for empty URL, got %d warnings", len(logger.warnCalls))
	}
}

func TestPoller_ConcurrentLifecycleAccess(t *testing.T) {
	logger := &mockLogger{}
	esClient := newMockESClient()
	dbClient := newMockDBClient()

	testClassifier := createTestClassifier(logger)
	batchProcessor := NewBatchProcessor(testClassifier, 2, logger)
	poller := NewPoller(esClient, dbClient, batchProcessor, logger, PollerConfig{
		BatchSize:    10,
		PollInterval: time.Hour, // never ticks during the test
	})

	ctx := context.Background()
	if err := poller.Start(ctx); err != nil {
		t.Fatalf("failed to start poller: %v", err)
	}

	// Readers and duplicate starters race against Stop; the atomic flag
	// must keep every access consistent.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = poller.IsRunning()
			_ = poller.GetStats()
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := poller.Start(ctx); err == nil {
				t.Error("expected error starting an already running poller")
			}
		}()
	}
	wg.Wait()

	poller.Stop()
	if poller.IsRunning() {
		t.Error("expected poller stopped after Stop()")
	}

	// A second Stop is a no-op rather than a double close.
	poller.Stop()
}
