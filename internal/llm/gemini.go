package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sportrium/assistant/internal/metrics"
	"github.com/sportrium/assistant/internal/models"
)

// GeminiMaxTokens caps Gemini replies.
const GeminiMaxTokens = 320

// Gemini is a Completer backed by the Google GenAI API.
type Gemini struct {
	client  *genai.Client
	model   string
	params  Params
	metrics *metrics.Collector
}

// Compile-time check that Gemini implements Completer.
var _ Completer = (*Gemini)(nil)

// NewGemini creates a Gemini completer. baseURL overrides the API endpoint when set.
func NewGemini(ctx context.Context, apiKey, model, baseURL string, m *metrics.Collector) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Google API key required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, params: DefaultParams(GeminiMaxTokens), metrics: m}, nil
}

// Name implements Completer.
func (g *Gemini) Name() string {
	return "gemini"
}

// Model returns the Gemini model name.
func (g *Gemini) Model() string {
	return g.model
}

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, system string, msgs []models.Turn) (string, error) {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, t := range msgs {
		role := genai.Role(genai.RoleUser)
		if t.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(g.params.Temperature)),
		TopP:             genai.Ptr(float32(g.params.TopP)),
		PresencePenalty:  genai.Ptr(float32(g.params.PresencePenalty)),
		FrequencyPenalty: genai.Ptr(float32(g.params.FrequencyPenalty)),
		MaxOutputTokens:  int32(g.params.MaxTokens),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.metrics.RecordLLMUsage(time.Since(start), 0, 0, err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var in, out int64
	if u := resp.UsageMetadata; u != nil {
		in, out = int64(u.PromptTokenCount), int64(u.CandidatesTokenCount)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.metrics.RecordLLMUsage(time.Since(start), in, out, ErrEmptyCompletion)
		return "", ErrEmptyCompletion
	}
	g.metrics.RecordLLMUsage(time.Since(start), in, out, nil)
	return text, nil
}
