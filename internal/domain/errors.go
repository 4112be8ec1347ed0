package domain

import "strings"

// ErrorCode is a coarse bucket for classification pipeline failures,
// used as a metric label so failure dashboards stay low-cardinality.
type ErrorCode string

const (
	ErrorCodeESTimeout      ErrorCode = "es_timeout"
	ErrorCodeESUnavailable  ErrorCode = "es_unavailable"
	ErrorCodeESIndexMissing ErrorCode = "es_index_not_found"
	ErrorCodeRulePanic      ErrorCode = "rule_panic"
	ErrorCodeIndexingFailed ErrorCode = "indexing_failed"
	ErrorCodeValidation     ErrorCode = "validation_failed"
	ErrorCodeUnknown        ErrorCode = "unknown"
)

// ClassifyError maps an error to an ErrorCode by message pattern.
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}

	errStr := err.Error()

	switch {
	case containsAny(errStr, "timeout", "deadline exceeded"):
		return ErrorCodeESTimeout
	case containsAny(errStr, "connection refused", "no such host", "connection reset"):
		return ErrorCodeESUnavailable
	case containsAny(errStr, "index_not_found"):
		return ErrorCodeESIndexMissing
	case containsAny(errStr, "panic"):
		return ErrorCodeRulePanic
	case containsAny(errStr, "indexing", "bulk"):
		return ErrorCodeIndexingFailed
	case containsAny(errStr, "invalid", "missing required"):
		return ErrorCodeValidation
	default:
		return ErrorCodeUnknown
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
