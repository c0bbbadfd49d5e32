package imagegen

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/common/metrics"
	"pitchcraft/internal/deck"
	"pitchcraft/internal/models"
)

// PlaceholderNote is returned with a free-form batch when nothing could be generated.
const PlaceholderNote = "Using placeholder images. DALL-E integration will work when API quota is available."

const placeholderPromptRunes = 50

type Config struct {
	Concurrency    int
	RequestTimeout time.Duration
}

// Batch fans image requests out to a Generator with bounded concurrency.
// A Batch without a Generator answers every request with a placeholder.
type Batch struct {
	gen         Generator
	placeholder deck.Placeholder
	config      Config
	logger      logger.Logger
}

func NewBatch(gen Generator, placeholder deck.Placeholder, cfg Config, log logger.Logger) *Batch {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Batch{
		gen:         gen,
		placeholder: placeholder,
		config:      cfg,
		logger:      log.With(map[string]interface{}{"component": "imagegen"}),
	}
}

type result struct {
	key int
	url string
	err error
}

func (b *Batch) run(ctx context.Context, prompts map[int]string) []result {
	p := pool.NewWithResults[result]().WithMaxGoroutines(b.config.Concurrency)
	for key, prompt := range prompts {
		p.Go(func() result {
			reqCtx := ctx
			if b.config.RequestTimeout > 0 {
				var cancel context.CancelFunc
				reqCtx, cancel = context.WithTimeout(ctx, b.config.RequestTimeout)
				defer cancel()
			}
			if b.gen == nil {
				return result{key: key, err: ErrNoImage}
			}
			url, err := b.gen.Generate(reqCtx, prompt)
			return result{key: key, url: url, err: err}
		})
	}
	return p.Wait()
}

// SlidePrompt is the full image prompt sent for a slide.
func SlidePrompt(company string, s models.Slide) string {
	p := s.ImagePrompt
	if p == "" {
		p = fmt.Sprintf("Professional business presentation slide for %s: %s", company, s.Title)
	}
	return fmt.Sprintf("Professional business presentation image: %s. Clean, modern, corporate style with high quality and professional lighting. Suitable for investor presentation. No text overlays.", p)
}

func freeformPrompt(p string) string {
	return fmt.Sprintf("Professional business presentation image: %s. Clean, modern, corporate style with high quality and professional lighting. Suitable for investor presentation.", p)
}

// Illustrate requests one image per slide and patches ImageURL in place,
// matching results to slides by id. Slides whose request failed get a
// placeholder labelled with their title. It returns the number of images
// actually generated.
func (b *Batch) Illustrate(ctx context.Context, company string, slides []models.Slide) int {
	if len(slides) == 0 {
		return 0
	}

	prompts := make(map[int]string, len(slides))
	for _, s := range slides {
		prompts[s.ID] = SlidePrompt(company, s)
	}

	urls := make(map[int]string, len(slides))
	for _, r := range b.run(ctx, prompts) {
		if r.err != nil {
			b.logger.Warn("image generation failed", map[string]interface{}{
				"slideId": r.key,
				"error":   r.err.Error(),
			})
			continue
		}
		urls[r.key] = r.url
	}

	for i := range slides {
		if url, ok := urls[slides[i].ID]; ok {
			slides[i].ImageURL = url
			metrics.ImagesGenerated.WithLabelValues("generated").Inc()
			continue
		}
		slides[i].ImageURL = b.placeholder.URL(slides[i].Title)
		metrics.ImagesGenerated.WithLabelValues("placeholder").Inc()
	}

	b.logger.Info("slides illustrated", map[string]interface{}{
		"slides":    len(slides),
		"generated": len(urls),
	})
	return len(urls)
}

// GenerateForPrompts renders free-form prompts in order. Individual failures
// become numbered placeholders; when every request fails all images are
// placeholders built from the prompts and note is PlaceholderNote.
func (b *Batch) GenerateForPrompts(ctx context.Context, prompts []string) (images []string, note string) {
	images = make([]string, len(prompts))
	if len(prompts) == 0 {
		return images, ""
	}

	keyed := make(map[int]string, len(prompts))
	for i, p := range prompts {
		keyed[i] = freeformPrompt(p)
	}

	generated := 0
	for _, r := range b.run(ctx, keyed) {
		if r.err != nil {
			b.logger.Warn("image generation failed", map[string]interface{}{
				"index": r.key + 1,
				"error": r.err.Error(),
			})
			continue
		}
		images[r.key] = r.url
		generated++
	}

	if generated == 0 {
		for i, p := range prompts {
			images[i] = b.placeholder.URL(truncateRunes(p, placeholderPromptRunes))
		}
		metrics.ImagesGenerated.WithLabelValues("placeholder").Add(float64(len(prompts)))
		return images, PlaceholderNote
	}

	for i := range images {
		if images[i] == "" {
			images[i] = b.placeholder.URL(fmt.Sprintf("Image %d", i+1))
			metrics.ImagesGenerated.WithLabelValues("placeholder").Inc()
		} else {
			metrics.ImagesGenerated.WithLabelValues("generated").Inc()
		}
	}
	return images, ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
