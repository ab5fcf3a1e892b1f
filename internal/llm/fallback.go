package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sportrium/assistant/internal/canned"
	"github.com/sportrium/assistant/internal/language"
	"github.com/sportrium/assistant/internal/models"
)

const (
	// ProvenanceMock tags the offline echo reply.
	ProvenanceMock = "mock"

	echoLimit = 300
)

// Fallback tries providers in preference order, each behind its own breaker.
type Fallback struct {
	providers []*Guarded
	system    string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewFallback creates the provider chain. Each call is bounded by timeout.
func NewFallback(system string, timeout time.Duration, logger *slog.Logger, providers ...*Guarded) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{providers: providers, system: system, timeout: timeout, logger: logger}
}

// Providers returns the configured provider chain.
func (f *Fallback) Providers() []*Guarded {
	return f.providers
}

// Reply answers userText with the first provider that succeeds. If a provider
// was attempted and every attempt failed, it returns a friendly retry message;
// if nothing could be attempted it returns the offline echo.
func (f *Fallback) Reply(ctx context.Context, userText, stateSummary string, lang language.Lang) (string, string) {
	msgs := []models.Turn{{Role: models.RoleUser, Content: UserMessage(userText, stateSummary, lang)}}

	lastFailed := ""
	for _, p := range f.providers {
		text, err := f.complete(ctx, p, msgs)
		if err == nil {
			return text, p.Name()
		}
		if errors.Is(err, ErrCircuitOpen) {
			f.logger.Debug("provider skipped, circuit open", "provider", p.Name())
			continue
		}
		f.logger.Warn("provider failed", "provider", p.Name(), "failures", p.Breaker.Failures(), "error", err)
		lastFailed = p.Name()
	}

	if lastFailed != "" {
		return canned.ProviderUnavailable(lang), lastFailed
	}
	return Echo(userText), ProvenanceMock
}

func (f *Fallback) complete(ctx context.Context, p *Guarded, msgs []models.Turn) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	return p.Complete(ctx, f.system, msgs)
}

// Echo is the clearly marked dev-mode reply.
func Echo(userText string) string {
	return "Shukriya! (dev-mode) Aap ne kaha: " + models.Truncate(userText, echoLimit)
}
