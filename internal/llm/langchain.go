package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sportrium/assistant/internal/metrics"
	"github.com/sportrium/assistant/internal/models"
)

// OpenAIMaxTokens caps OpenAI replies.
const OpenAIMaxTokens = 350

// Model wraps a langchaingo LLM as a Completer.
type Model struct {
	name      string
	llm       llms.Model
	modelName string
	params    Params
	metrics   *metrics.Collector
}

// Compile-time check that Model implements Completer.
var _ Completer = (*Model)(nil)

// NewOpenAI creates an OpenAI chat completer.
func NewOpenAI(apiKey, model string, m *metrics.Collector, opts ...openai.Option) (*Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}
	opts = append([]openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}, opts...)
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return &Model{name: "openai", llm: llm, modelName: model, params: DefaultParams(OpenAIMaxTokens), metrics: m}, nil
}

// NewOllama creates a completer backed by a local Ollama server.
func NewOllama(host, model string, m *metrics.Collector) (*Model, error) {
	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(host),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return &Model{name: "ollama", llm: llm, modelName: model, params: DefaultParams(OpenAIMaxTokens), metrics: m}, nil
}

// Name implements Completer.
func (m *Model) Name() string {
	return m.name
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// Complete implements Completer.
func (m *Model) Complete(ctx context.Context, system string, msgs []models.Turn) (string, error) {
	messages := make([]llms.MessageContent, 0, len(msgs)+1)
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	for _, t := range msgs {
		messages = append(messages, llms.TextParts(chatType(t.Role), t.Content))
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(m.params.Temperature),
		llms.WithTopP(m.params.TopP),
		llms.WithPresencePenalty(m.params.PresencePenalty),
		llms.WithFrequencyPenalty(m.params.FrequencyPenalty),
		llms.WithMaxTokens(m.params.MaxTokens),
	)
	if err != nil {
		m.metrics.RecordLLMUsage(time.Since(start), 0, 0, err)
		return "", fmt.Errorf("%s generate: %w", m.name, err)
	}
	if len(response.Choices) == 0 {
		m.metrics.RecordLLMUsage(time.Since(start), 0, 0, ErrEmptyCompletion)
		return "", ErrEmptyCompletion
	}

	choice := response.Choices[0]
	in, out := tokenCount(choice.GenerationInfo, "PromptTokens"), tokenCount(choice.GenerationInfo, "CompletionTokens")
	text := strings.TrimSpace(choice.Content)
	if text == "" {
		m.metrics.RecordLLMUsage(time.Since(start), in, out, ErrEmptyCompletion)
		return "", ErrEmptyCompletion
	}
	m.metrics.RecordLLMUsage(time.Since(start), in, out, nil)
	return text, nil
}

func chatType(r models.Role) llms.ChatMessageType {
	switch r {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func tokenCount(info map[string]any, key string) int64 {
	switch v := info[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}
