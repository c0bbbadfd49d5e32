// Package mcp exposes the offline PitchCraft operations (profile extraction,
// chart synthesis and structured deck assembly) as Model Context Protocol
// tools. Nothing here calls a generative service.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pitchcraft/internal/charts"
	"pitchcraft/internal/deck"
	"pitchcraft/internal/extract"
)

type ServerConfig struct {
	Version       string
	Placeholder   deck.Placeholder
	MaxTextLength int
}

func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = 50000
	}
	if cfg.Placeholder.Base == "" {
		cfg.Placeholder = deck.DefaultPlaceholder
	}

	s := server.NewMCPServer(
		"PitchCraft",
		ver,
		server.WithToolCapabilities(false),
	)

	registerExtractTool(s, cfg)
	registerChartTool(s, cfg)
	registerDeckTool(s, cfg)

	return s
}

// requireText reads and bounds the text argument.
func requireText(req mcp.CallToolRequest, limit int) (string, *mcp.CallToolResult) {
	text, err := req.RequireString("text")
	if err != nil || strings.TrimSpace(text) == "" {
		return "", mcp.NewToolResultError("text is required")
	}
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n > limit {
		return "", mcp.NewToolResultError(fmt.Sprintf("text is too long: %d characters, limit %d", n, limit))
	}
	return text, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func registerExtractTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("pitchcraft_extract_profile",
		mcp.WithDescription("Extract a business profile (company name, personnel, sections and numeric metrics) from free-form business text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Business plan, pitch notes or company description"),
		),
	)

	s.AddTool(tool, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, bad := requireText(req, cfg.MaxTextLength)
		if bad != nil {
			return bad, nil
		}
		return jsonResult(extract.BuildProfile(text))
	})
}

func registerChartTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("pitchcraft_synthesize_chart",
		mcp.WithDescription("Synthesize a growth or financial chart series from the metrics found in business text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Business text to mine for metrics"),
		),
		mcp.WithString("intent",
			mcp.Required(),
			mcp.Description("Chart intent: growth or financial"),
			mcp.Enum("growth", "financial"),
		),
	)

	s.AddTool(tool, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, bad := requireText(req, cfg.MaxTextLength)
		if bad != nil {
			return bad, nil
		}
		raw, err := req.RequireString("intent")
		if err != nil {
			return mcp.NewToolResultError("intent is required"), nil
		}
		intent, ok := charts.ParseIntent(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported intent %q", raw)), nil
		}

		profile := extract.BuildProfile(text)
		return jsonResult(charts.Synthesize(profile.Metrics, intent))
	})
}

func registerDeckTool(s *server.MCPServer, cfg ServerConfig) {
	assembler := deck.NewAssembler(cfg.Placeholder)

	tool := mcp.NewTool("pitchcraft_build_deck",
		mcp.WithDescription("Build a structured investor deck from business text without calling a generative service. Returns the slide list."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Business text to turn into slides"),
		),
	)

	s.AddTool(tool, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, bad := requireText(req, cfg.MaxTextLength)
		if bad != nil {
			return bad, nil
		}
		return jsonResult(map[string]interface{}{
			"slides": assembler.Assemble(extract.BuildProfile(text)),
		})
	})
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
