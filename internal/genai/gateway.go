package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	commonhttp "pitchcraft/internal/common/http"
)

// GatewayProvider talks to an internal GenAI gateway that exposes
// POST /api/ai/generate.
type GatewayProvider struct {
	baseURL string
	apiKey  string
	opts    Options
	client  *commonhttp.Client
}

func NewGatewayProvider(baseURL, apiKey string, timeout time.Duration, maxRetries int, opts Options) *GatewayProvider {
	return &GatewayProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		opts:    opts,
		client:  commonhttp.NewClient(timeout).WithRetries(maxRetries),
	}
}

func (p *GatewayProvider) Name() string { return "genai" }

type gatewayRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type gatewayResponse struct {
	Text string `json:"text"`
}

func (p *GatewayProvider) Complete(ctx context.Context, prompt string) (string, error) {
	headers := map[string]string{}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
	}

	var resp gatewayResponse
	err := p.client.PostJSON(ctx, p.baseURL+"/api/ai/generate", headers, gatewayRequest{
		Prompt:      prompt,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
	}, &resp)
	if err != nil {
		return "", wrapFailure(ctx, err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrInvalidOutput)
	}
	return resp.Text, nil
}
