package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		retries int
	}{
		{ErrCodeLLMUnavailable, 3},
		{ErrCodeDeckStoreFailed, 3},
		{ErrCodeNotificationSendFailed, 3},
		{ErrCodeImageGenerationFailed, 2},
		{ErrCodeLLMTimeout, 1},
		{ErrCodeTextRequired, 0},
		{ErrCodeInvalidChartType, 0},
		{ErrCodeInternal, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.retries > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewLLMTimeoutError("openai"))
	assert.Equal(t, "LLM_TIMEOUT", bpmn.Code)
	assert.True(t, bpmn.Retryable)
	assert.Equal(t, 1, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "LLM_TIMEOUT", vars["errorCode"])
	assert.Equal(t, "LLM_TIMEOUT", vars["originalErrorCode"])

	bpmn = ConvertToBPMNError(NewTextTooLongError(60000, 50000))
	assert.Equal(t, "TEXT_TOO_LONG", bpmn.Code)
	assert.False(t, bpmn.Retryable)
	assert.Equal(t, 0, bpmn.Retries)
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("notify: %w", NewNotificationSendFailedError("email", errors.New("throttled")))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)

	_, ok = AsStandardError(errors.New("plain"))
	assert.False(t, ok)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeLLMInvalidOutput))
	assert.Equal(t, "IMAGE", GetErrorCategory(ErrCodeImageGenerationFailed))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchIndexFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeTextRequired))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
