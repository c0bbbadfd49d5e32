package genai

import (
	"context"
	"fmt"
	"time"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/deck"
	"pitchcraft/internal/models"
)

// SlideGenerator asks a Provider for a full deck and validates the answer.
type SlideGenerator struct {
	provider Provider
	timeout  time.Duration
	logger   logger.Logger
}

func NewSlideGenerator(provider Provider, timeout time.Duration, log logger.Logger) *SlideGenerator {
	return &SlideGenerator{
		provider: provider,
		timeout:  timeout,
		logger: log.With(map[string]interface{}{
			"component": "genai",
			"provider":  provider.Name(),
		}),
	}
}

// Generate returns validated slides for profile. Any error means the caller
// should fall back to the structured deck.
func (g *SlideGenerator) Generate(ctx context.Context, profile *models.BusinessProfile) ([]models.Slide, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.provider.Complete(ctx, BuildPrompt(profile))
	if err != nil {
		return nil, err
	}

	doc, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	slides, err := deck.DecodeSlides(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	g.logger.Info("slides generated", map[string]interface{}{
		"slideCount": len(slides),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return slides, nil
}
