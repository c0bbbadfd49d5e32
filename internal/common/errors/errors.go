// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeTextRequired     ErrorCode = "TEXT_REQUIRED"
	ErrCodeTextTooLong      ErrorCode = "TEXT_TOO_LONG"
	ErrCodeInvalidPrompts   ErrorCode = "INVALID_PROMPTS"
	ErrCodeInvalidChartType ErrorCode = "INVALID_CHART_INTENT"

	ErrCodeLLMUnavailable   ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeLLMTimeout       ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMInvalidOutput ErrorCode = "LLM_INVALID_OUTPUT"

	ErrCodeImageGenerationFailed ErrorCode = "IMAGE_GENERATION_FAILED"

	ErrCodeDeckNotFound    ErrorCode = "DECK_NOT_FOUND"
	ErrCodeDeckStoreFailed ErrorCode = "DECK_STORE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchIndexFailed ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns the error with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for job fail/throw variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

// NewTextRequiredError is returned when the business text is blank.
func NewTextRequiredError() *StandardError {
	return newError(ErrCodeTextRequired, "Text content is required", "", false)
}

// NewTextTooLongError is returned when the business text exceeds the configured limit.
func NewTextTooLongError(length, limit int) *StandardError {
	return newError(ErrCodeTextTooLong, "Text content is too long",
		fmt.Sprintf("length: %d, limit: %d", length, limit), false)
}

func NewInvalidPromptsError(details string) *StandardError {
	return newError(ErrCodeInvalidPrompts, "Invalid prompts array", details, false)
}

func NewInvalidChartIntentError(intent string) *StandardError {
	return newError(ErrCodeInvalidChartType, "Unsupported chart intent",
		fmt.Sprintf("intent: %s", intent), false)
}

// NewLLMUnavailableError wraps a transport or provider failure.
func NewLLMUnavailableError(provider string, err error) *StandardError {
	return newError(ErrCodeLLMUnavailable, fmt.Sprintf("Generative provider '%s' unavailable", provider),
		err.Error(), true)
}

func NewLLMTimeoutError(provider string) *StandardError {
	return newError(ErrCodeLLMTimeout, "Generative provider timeout",
		fmt.Sprintf("provider: %s", provider), true)
}

// NewLLMInvalidOutputError is raised when the reply cannot be parsed into slides.
func NewLLMInvalidOutputError(details string) *StandardError {
	return newError(ErrCodeLLMInvalidOutput, "Generative provider returned invalid slides", details, false)
}

func NewImageGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeImageGenerationFailed, "Image generation failed", err.Error(), true)
}

func NewDeckNotFoundError(deckID string) *StandardError {
	return newError(ErrCodeDeckNotFound, "Presentation not found",
		fmt.Sprintf("deckId: %s", deckID), false)
}

func NewDeckStoreFailedError(op string, err error) *StandardError {
	return newError(ErrCodeDeckStoreFailed, "Presentation store operation failed",
		fmt.Sprintf("op: %s, error: %s", op, err.Error()), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", err.Error(), true)
}

func NewSearchQueryFailedError(err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Profile search failed", err.Error(), true)
}

func NewSearchIndexFailedError(err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Profile indexing failed", err.Error(), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service),
		err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

// ==========================
// 4. Mapping & Retry Policy
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeTextRequired:             "TEXT_REQUIRED",
	ErrCodeTextTooLong:              "TEXT_TOO_LONG",
	ErrCodeInvalidPrompts:           "INVALID_PROMPTS",
	ErrCodeInvalidChartType:         "INVALID_CHART_INTENT",
	ErrCodeLLMUnavailable:           "LLM_UNAVAILABLE",
	ErrCodeLLMTimeout:               "LLM_TIMEOUT",
	ErrCodeLLMInvalidOutput:         "LLM_INVALID_OUTPUT",
	ErrCodeImageGenerationFailed:    "IMAGE_GENERATION_FAILED",
	ErrCodeDeckNotFound:             "DECK_NOT_FOUND",
	ErrCodeDeckStoreFailed:          "DECK_STORE_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeCacheUnavailable:         "CACHE_UNAVAILABLE",
	ErrCodeSearchQueryFailed:        "SEARCH_QUERY_FAILED",
	ErrCodeSearchIndexFailed:        "SEARCH_INDEX_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeLLMUnavailable,
		ErrCodeDeckStoreFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeCacheUnavailable,
		ErrCodeSearchQueryFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeImageGenerationFailed:
		return 2

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0 // input and business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// AsStandardError unwraps err to a *StandardError when one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "LLM"):
		return "AI"
	case strings.HasPrefix(codeStr, "IMAGE"):
		return "IMAGE"
	case strings.HasPrefix(codeStr, "DECK") || strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.HasPrefix(codeStr, "INVALID") || strings.HasPrefix(codeStr, "TEXT"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
