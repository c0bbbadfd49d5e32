package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: pitchcraft\nworkers:\n  synthesize-chart:\n    enabled: false\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "pitch-deck-generation", cfg.Camunda.ProcessID)
	assert.Equal(t, "openai", cfg.APIs.Provider)
	assert.Equal(t, "/placeholder.svg", cfg.Deck.PlaceholderBase)
	assert.Equal(t, 600, cfg.Deck.ImageWidth)
	assert.Equal(t, 400, cfg.Deck.ImageHeight)
	assert.Equal(t, 50000, cfg.Deck.MaxTextLength)
	assert.Equal(t, "@hourly", cfg.Retention.Schedule)
	assert.Equal(t, "pitchcraft", cfg.Observability.ServiceName)

	worker := cfg.Workers["synthesize-chart"]
	assert.False(t, worker.Enabled)
	assert.Equal(t, 30000, worker.Timeout)
	assert.False(t, IsWorkerEnabled(cfg, "synthesize-chart"))
	assert.True(t, IsWorkerEnabled(cfg, "generate-images"))
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("PITCHCRAFT_TEST_GENAI_URL", "http://genai.internal:8000")

	cfg, err := LoadFromFile(writeConfig(t, "apis:\n  provider: genai\n  genai:\n    base_url: ${PITCHCRAFT_TEST_GENAI_URL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://genai.internal:8000", cfg.APIs.GenAI.BaseURL)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"camunda without broker", "camunda:\n  enabled: true\n"},
		{"postgres without host", "database:\n  postgres:\n    enabled: true\n    database: pitchcraft\n    user: app\n"},
		{"redis without address", "database:\n  redis:\n    enabled: true\n"},
		{"unknown provider", "apis:\n  provider: anthropic\n"},
		{"retention without postgres", "retention:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	wc := GetWorkerConfig(&Config{}, "notify-deck-ready")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 30*time.Second, GetDuration(wc.Timeout))
}
