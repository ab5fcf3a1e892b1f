// Package embedding provides text embedding generation with multiple backend support.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/sportrium/assistant/internal/metrics"
)

// Embedder defines the interface for text embedding providers.
// Implementations include Ollama (local), Voyage AI, Google GenAI and OpenAI.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// More efficient than multiple Embed calls for the classifier exemplars.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string
}

// ProviderType identifies the embedding provider.
type ProviderType string

const (
	// ProviderNone disables embeddings; intent classification stays rule-based.
	ProviderNone ProviderType = "none"

	// ProviderOllama uses a local Ollama server for embeddings.
	ProviderOllama ProviderType = "ollama"

	// ProviderVoyage uses the Voyage AI embeddings API.
	ProviderVoyage ProviderType = "voyage"

	// ProviderGemini uses the Google GenAI embeddings API.
	ProviderGemini ProviderType = "gemini"

	// ProviderOpenAI uses OpenAI embeddings via langchaingo.
	ProviderOpenAI ProviderType = "openai"
)

// Config holds configuration for creating an Embedder.
type Config struct {
	// Provider specifies which embedding backend to use.
	Provider ProviderType

	// Model is the embedding model name (provider-specific).
	// Empty selects the provider default.
	Model string

	VoyageAPIKey string
	GoogleAPIKey string
	OpenAIAPIKey string
	OllamaHost   string
}

// New creates an Embedder based on the provided configuration.
// It returns (nil, nil) for ProviderNone.
func New(ctx context.Context, cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderNone, "":
		return nil, nil

	case ProviderOllama:
		return NewOllamaClient(cfg.OllamaHost, cfg.Model)

	case ProviderVoyage:
		return NewVoyageClient(cfg.VoyageAPIKey, cfg.Model)

	case ProviderGemini:
		return NewGenAIClient(ctx, cfg.GoogleAPIKey, cfg.Model)

	case ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// Instrumented records the duration and outcome of every call into a metrics collector.
type Instrumented struct {
	Embedder
	metrics *metrics.Collector
}

// WithMetrics wraps e so its calls are recorded as embedding operations.
func WithMetrics(e Embedder, m *metrics.Collector) *Instrumented {
	return &Instrumented{Embedder: e, metrics: m}
}

// Embed implements Embedder.
func (i *Instrumented) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	v, err := i.Embedder.Embed(ctx, text)
	i.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start), err)
	return v, err
}

// EmbedBatch implements Embedder.
func (i *Instrumented) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	v, err := i.Embedder.EmbedBatch(ctx, texts)
	i.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start), err)
	return v, err
}
