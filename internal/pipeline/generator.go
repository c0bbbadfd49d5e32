// internal/pipeline/generator.go
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/common/metrics"
	"pitchcraft/internal/common/observability"
	"pitchcraft/internal/deck"
	"pitchcraft/internal/extract"
	"pitchcraft/internal/models"
	"pitchcraft/internal/store"
)

var errNoSlideSource = errors.New("no generative service configured")

// StructuredNote annotates decks built without the generative service.
const StructuredNote = "Generative service unavailable; presentation built from extracted content."

// SlideSource produces slide content for a profile, typically via an LLM.
type SlideSource interface {
	Generate(ctx context.Context, profile *models.BusinessProfile) ([]models.Slide, error)
}

// Illustrator patches ImageURL on every slide and reports how many images
// were really generated.
type Illustrator interface {
	Illustrate(ctx context.Context, company string, slides []models.Slide) int
}

type Indexer interface {
	IndexDeck(ctx context.Context, deck *models.Deck) error
}

// Deps are the collaborators of a Generator. Everything except Assembler is
// optional.
type Deps struct {
	Assembler     *deck.Assembler
	Placeholder   deck.Placeholder
	Slides        SlideSource
	Images        Illustrator
	Store         store.DeckStore
	Index         Indexer
	Observability *observability.Observability
}

type Generator struct {
	deps   Deps
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewGenerator(deps Deps, log logger.Logger) *Generator {
	if deps.Assembler == nil {
		deps.Assembler = deck.NewAssembler(deps.Placeholder)
	}
	return &Generator{
		deps:   deps,
		logger: log.With(map[string]interface{}{"component": "pipeline"}),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Generate runs the full pipeline for text. It degrades from generated
// content with images, to generated content with placeholder images, to the
// structured deck; only a cancelled context makes it fail.
func (g *Generator) Generate(ctx context.Context, text string) (*models.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := g.extract(ctx, text)

	d := &models.Deck{
		ID:          g.newID(),
		CompanyName: profile.CompanyName,
		Profile:     profile,
		CreatedAt:   g.now().UTC(),
	}

	slides, err := g.generateSlides(ctx, profile)
	if err != nil {
		g.logger.Warn("generative service unavailable, building structured deck", map[string]interface{}{
			"company": profile.CompanyName,
			"error":   err.Error(),
		})
		d.Slides = g.deps.Assembler.Assemble(profile)
		d.Tier = models.TierStructured
		d.Note = StructuredNote
	} else {
		d.Slides = slides
		d.Tier = g.illustrate(ctx, profile.CompanyName, slides)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.persist(ctx, d)
	metrics.DecksGenerated.WithLabelValues(string(d.Tier)).Inc()

	g.logger.Info("presentation generated", map[string]interface{}{
		"deckId":     d.ID,
		"company":    d.CompanyName,
		"tier":       string(d.Tier),
		"slideCount": len(d.Slides),
	})
	return d, nil
}

// Extract builds the profile only, recording the extraction stage.
func (g *Generator) Extract(ctx context.Context, text string) *models.BusinessProfile {
	return g.extract(ctx, text)
}

// Structured builds the offline deck for text without calling any service.
func (g *Generator) Structured(ctx context.Context, text string) []models.Slide {
	return g.deps.Assembler.Assemble(g.extract(ctx, text))
}

func (g *Generator) extract(ctx context.Context, text string) *models.BusinessProfile {
	_, end := g.deps.Observability.StartSpan(ctx, "pipeline.extract", nil)
	start := time.Now()
	profile := extract.BuildProfile(text)
	elapsed := time.Since(start)
	end(nil)

	metrics.ExtractionDuration.Observe(elapsed.Seconds())
	g.recordStage(ctx, "extract", elapsed, "ok")
	return profile
}

func (g *Generator) generateSlides(ctx context.Context, profile *models.BusinessProfile) ([]models.Slide, error) {
	if g.deps.Slides == nil {
		return nil, errNoSlideSource
	}

	spanCtx, end := g.deps.Observability.StartSpan(ctx, "pipeline.llm", map[string]string{"company": profile.CompanyName})
	start := time.Now()
	slides, err := g.deps.Slides.Generate(spanCtx, profile)
	end(err)

	g.recordStage(ctx, "llm", time.Since(start), outcome(err))
	return slides, err
}

func (g *Generator) illustrate(ctx context.Context, company string, slides []models.Slide) models.Tier {
	if g.deps.Images == nil {
		for i := range slides {
			if slides[i].ImageURL == "" {
				slides[i].ImageURL = g.deps.Placeholder.URL(slides[i].Title)
			}
		}
		return models.TierPlaceholderImages
	}

	spanCtx, end := g.deps.Observability.StartSpan(ctx, "pipeline.images", map[string]string{"company": company})
	start := time.Now()
	generated := g.deps.Images.Illustrate(spanCtx, company, slides)
	end(nil)

	tier := models.TierGenerative
	if generated == 0 {
		tier = models.TierPlaceholderImages
	}
	g.recordStage(ctx, "images", time.Since(start), string(tier))
	return tier
}

func (g *Generator) persist(ctx context.Context, d *models.Deck) {
	if g.deps.Store != nil {
		start := time.Now()
		err := g.deps.Store.Save(ctx, d)
		if err != nil {
			g.logger.Error("failed to save presentation", map[string]interface{}{
				"deckId": d.ID,
				"error":  err.Error(),
			})
		}
		g.recordStage(ctx, "persist", time.Since(start), outcome(err))
	}

	if g.deps.Index != nil {
		if err := g.deps.Index.IndexDeck(ctx, d); err != nil {
			g.logger.Warn("failed to index profile", map[string]interface{}{
				"deckId": d.ID,
				"error":  err.Error(),
			})
		}
	}
}

func (g *Generator) recordStage(ctx context.Context, stage string, d time.Duration, result string) {
	if g.deps.Observability != nil {
		g.deps.Observability.RecordStage(ctx, stage, d, result)
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
