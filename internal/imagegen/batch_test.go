package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/deck"
	"pitchcraft/internal/models"
)

// ==========================
// Helpers
// ==========================

// scriptedGenerator fails any prompt containing one of the fail markers and
// otherwise returns a URL derived from the call order.
type scriptedGenerator struct {
	mu      sync.Mutex
	fail    []string
	delay   map[string]time.Duration
	prompts []string
	calls   atomic.Int32
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	g.calls.Add(1)

	for marker, d := range g.delay {
		if strings.Contains(prompt, marker) {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	for _, marker := range g.fail {
		if strings.Contains(prompt, marker) {
			return "", errors.New("quota exceeded")
		}
	}
	return "https://images.example.com/" + marker(prompt) + ".png", nil
}

// marker returns the first word after the decoration prefix.
func marker(prompt string) string {
	rest := strings.TrimPrefix(prompt, "Professional business presentation image: ")
	return strings.Fields(rest)[0]
}

func createTestBatch(t *testing.T, gen Generator) *Batch {
	return NewBatch(gen, deck.DefaultPlaceholder, Config{Concurrency: 2, RequestTimeout: time.Second}, logger.NewTestLogger(t))
}

func testSlides() []models.Slide {
	return []models.Slide{
		{ID: 0, Type: models.SlideIntro, Title: "PitchCraft AI", ImagePrompt: "alpha branding"},
		{ID: 3, Type: models.SlideContent, Title: "Market Opportunity", ImagePrompt: "bravo market"},
		{ID: 7, Type: models.SlideImage, Title: "Thank You"},
	}
}

// ==========================
// Slide illustration
// ==========================

func TestIllustrate_AllSucceed(t *testing.T) {
	gen := &scriptedGenerator{}
	slides := testSlides()

	n := createTestBatch(t, gen).Illustrate(context.Background(), "Acme", slides)

	assert.Equal(t, 3, n)
	assert.Equal(t, "https://images.example.com/alpha.png", slides[0].ImageURL)
	assert.Equal(t, "https://images.example.com/bravo.png", slides[1].ImageURL)
	assert.Equal(t, "https://images.example.com/Professional.png", slides[2].ImageURL)
	assert.Equal(t, int32(3), gen.calls.Load())
}

func TestIllustrate_PartialFailureUsesTitlePlaceholder(t *testing.T) {
	gen := &scriptedGenerator{fail: []string{"bravo"}}
	slides := testSlides()

	n := createTestBatch(t, gen).Illustrate(context.Background(), "Acme", slides)

	assert.Equal(t, 2, n)
	assert.Equal(t, "https://images.example.com/alpha.png", slides[0].ImageURL)
	assert.Equal(t, "/placeholder.svg?height=400&width=600&text=Market+Opportunity", slides[1].ImageURL)
	assert.NotContains(t, slides[2].ImageURL, "placeholder")
}

func TestIllustrate_SlowRequestTimesOut(t *testing.T) {
	gen := &scriptedGenerator{delay: map[string]time.Duration{"alpha": 2 * time.Second}}
	b := NewBatch(gen, deck.DefaultPlaceholder, Config{Concurrency: 3, RequestTimeout: 50 * time.Millisecond}, logger.NewNoOpLogger())
	slides := testSlides()

	start := time.Now()
	n := b.Illustrate(context.Background(), "Acme", slides)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 2, n)
	assert.Equal(t, "/placeholder.svg?height=400&width=600&text=PitchCraft+AI", slides[0].ImageURL)
}

func TestIllustrate_AllFail(t *testing.T) {
	gen := &scriptedGenerator{fail: []string{"Professional"}}
	slides := testSlides()

	n := createTestBatch(t, gen).Illustrate(context.Background(), "Acme", slides)

	assert.Equal(t, 0, n)
	for _, s := range slides {
		assert.True(t, strings.HasPrefix(s.ImageURL, "/placeholder.svg?"), s.Title)
	}
}

func TestSlidePrompt(t *testing.T) {
	withPrompt := SlidePrompt("Acme", models.Slide{Title: "Team", ImagePrompt: "team photo"})
	assert.Equal(t, "Professional business presentation image: team photo. Clean, modern, corporate style with high quality and professional lighting. Suitable for investor presentation. No text overlays.", withPrompt)

	fallback := SlidePrompt("Acme", models.Slide{Title: "Team"})
	assert.True(t, strings.HasPrefix(fallback, "Professional business presentation image: Professional business presentation slide for Acme: Team. "))
}

// ==========================
// Free-form prompts
// ==========================

func TestGenerateForPrompts_KeepsOrder(t *testing.T) {
	gen := &scriptedGenerator{fail: []string{"charlie"}}

	images, note := createTestBatch(t, gen).GenerateForPrompts(context.Background(), []string{"alpha", "bravo", "charlie", "delta"})

	assert.Empty(t, note)
	assert.Equal(t, []string{
		"https://images.example.com/alpha..png",
		"https://images.example.com/bravo..png",
		"/placeholder.svg?height=400&width=600&text=Image+3",
		"https://images.example.com/delta..png",
	}, images)

	for _, p := range gen.prompts {
		assert.NotContains(t, p, "No text overlays")
	}
}

func TestGenerateForPrompts_AllFailed(t *testing.T) {
	gen := &scriptedGenerator{fail: []string{"Professional"}}
	long := strings.Repeat("é", 60)

	images, note := createTestBatch(t, gen).GenerateForPrompts(context.Background(), []string{"A cozy office", long})

	assert.Equal(t, PlaceholderNote, note)
	require.Len(t, images, 2)
	assert.Equal(t, "/placeholder.svg?height=400&width=600&text=A+cozy+office", images[0])
	assert.Equal(t, deck.DefaultPlaceholder.URL(strings.Repeat("é", 50)), images[1])
}

func TestGenerateForPrompts_NoGenerator(t *testing.T) {
	images, note := createTestBatch(t, nil).GenerateForPrompts(context.Background(), []string{"Team photo"})

	assert.Equal(t, PlaceholderNote, note)
	assert.Equal(t, []string{"/placeholder.svg?height=400&width=600&text=Team+photo"}, images)
}

func TestGenerateForPrompts_Empty(t *testing.T) {
	images, note := createTestBatch(t, &scriptedGenerator{}).GenerateForPrompts(context.Background(), nil)
	assert.Empty(t, images)
	assert.Empty(t, note)
}

// ==========================
// OpenAI generator
// ==========================

func TestOpenAIGenerator_Generate(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/images/generations"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1700000000,"data":[{"url":"https://images.example.com/x.png"}]}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", srv.URL, "", option.WithMaxRetries(0))

	url, err := g.Generate(context.Background(), "an office")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/x.png", url)
	assert.Equal(t, "dall-e-3", body["model"])
	assert.Equal(t, "1024x1024", body["size"])
	assert.Equal(t, "url", body["response_format"])
}

func TestOpenAIGenerator_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1700000000,"data":[]}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", srv.URL, "dall-e-3", option.WithMaxRetries(0))

	_, err := g.Generate(context.Background(), "an office")
	assert.True(t, errors.Is(err, ErrNoImage))
}

func TestOpenAIGenerator_QuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Billing hard limit has been reached","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", srv.URL, "", option.WithMaxRetries(0))

	_, err := g.Generate(context.Background(), "an office")
	assert.Error(t, err)
}
