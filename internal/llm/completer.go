// Package llm is the generative fallback: provider adapters behind one
// Completer interface, a circuit breaker and the provider chain.
package llm

import (
	"context"
	"errors"

	"github.com/sportrium/assistant/internal/models"
)

var (
	// ErrCircuitOpen is returned without any I/O while a provider's breaker is open.
	ErrCircuitOpen = errors.New("circuit open")

	// ErrEmptyCompletion is returned when a provider answers with no text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Completer turns a system instruction and a short message list into text.
type Completer interface {
	Complete(ctx context.Context, system string, msgs []models.Turn) (string, error)

	// Name is the provider's provenance tag, e.g. "gemini".
	Name() string
}

// Params are the sampling parameters shared by every provider.
type Params struct {
	Temperature      float64
	TopP             float64
	PresencePenalty  float64
	FrequencyPenalty float64
	MaxTokens        int
}

// DefaultParams returns the sampling parameters with the given token cap.
func DefaultParams(maxTokens int) Params {
	return Params{
		Temperature:      0.4,
		TopP:             0.9,
		PresencePenalty:  0.6,
		FrequencyPenalty: 0.6,
		MaxTokens:        maxTokens,
	}
}
