// Package genai turns a business profile into slide content through a
// text-generation service.
package genai

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrProviderUnavailable = errors.New("LLM_UNAVAILABLE")
	ErrProviderTimeout     = errors.New("LLM_TIMEOUT")
	ErrInvalidOutput       = errors.New("LLM_INVALID_OUTPUT")
)

// Provider completes a single prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options tune a completion request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// wrapFailure maps a transport failure onto the package sentinels.
func wrapFailure(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrProviderTimeout
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
