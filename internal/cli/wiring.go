package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/sportrium/assistant/internal/assistant"
	"github.com/sportrium/assistant/internal/catalog"
	"github.com/sportrium/assistant/internal/config"
	"github.com/sportrium/assistant/internal/embedding"
	"github.com/sportrium/assistant/internal/events"
	"github.com/sportrium/assistant/internal/fixtures"
	"github.com/sportrium/assistant/internal/intent"
	"github.com/sportrium/assistant/internal/llm"
	"github.com/sportrium/assistant/internal/metrics"
	"github.com/sportrium/assistant/internal/server"
	"github.com/sportrium/assistant/internal/session"
)

// app is the assistant with the collaborators the server reports on.
type app struct {
	assistant *assistant.Assistant
	catalog   *catalog.Loader
	sessions  *session.Store
	fallback  *llm.Fallback
	metrics   *metrics.Collector
	info      server.Info
}

// build wires every component from cfg. Provider or embedding setup failures are
// logged and the component is left out; build itself never fails.
func build(ctx context.Context, cfg config.Config, logger *slog.Logger) *app {
	m := metrics.NewCollector()
	cat := catalog.NewLoader(cfg.EntitiesFile, logger)
	sessions := session.NewStore(cfg.SessionTTL)

	var emb embedding.Embedder
	e, err := embedding.New(ctx, embedding.Config{
		Provider:     embedding.ProviderType(cfg.EmbedProvider),
		Model:        cfg.EmbedModel,
		VoyageAPIKey: cfg.VoyageAPIKey,
		GoogleAPIKey: cfg.GoogleAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OllamaHost:   cfg.OllamaHost,
	})
	switch {
	case err != nil:
		logger.Warn("embedding provider unavailable, using rule classifier", "provider", cfg.EmbedProvider, "error", err)
	case e != nil:
		emb = embedding.WithMetrics(e, m)
		logger.Info("intent embeddings enabled", "provider", cfg.EmbedProvider, "model", e.Model())
	}

	ev := events.New(cfg.PublicAPIBase, cfg.APITimeout, logger, events.WithMetrics(m))
	providers, modelNames := buildProviders(ctx, cfg, m, logger)
	fallback := llm.NewFallback(llm.LoadSystemPrompt(cfg.SystemPromptFile, logger), cfg.LLMTimeout, logger, providers...)

	a := assistant.New(assistant.Deps{
		Catalog:    cat,
		Sessions:   sessions,
		Classifier: intent.New(emb, logger),
		Searcher:   fixtures.NewSearcher(ev, logger),
		Fallback:   fallback,
		Metrics:    m,
		Logger:     logger,
		Threshold:  cfg.IntentThreshold,
	})

	return &app{
		assistant: a,
		catalog:   cat,
		sessions:  sessions,
		fallback:  fallback,
		metrics:   m,
		info: server.Info{
			Provider: cfg.Provider(),
			Models:   modelNames,
			Keys: map[string]bool{
				"GOOGLE_API_KEY": cfg.GoogleAPIKey != "",
				"OPENAI_API_KEY": cfg.OpenAIAPIKey != "",
				"VOYAGE_API_KEY": cfg.VoyageAPIKey != "",
			},
			APITimeout:    cfg.APITimeout,
			LLMTimeout:    cfg.LLMTimeout,
			PublicAPIBase: ev.Base(),
		},
	}
}

// buildProviders returns the generative providers in preference order, each
// behind its own breaker: Gemini, then OpenAI, then the opt-in local Ollama.
func buildProviders(ctx context.Context, cfg config.Config, m *metrics.Collector, logger *slog.Logger) ([]*llm.Guarded, map[string]string) {
	var out []*llm.Guarded
	names := map[string]string{}
	guard := func(c llm.Completer, model string) {
		out = append(out, llm.Guard(c, llm.NewBreaker(cfg.CircuitTrip, cfg.CircuitCooldown, time.Now)))
		names[c.Name()] = model
	}

	if cfg.GoogleAPIKey != "" {
		if g, err := llm.NewGemini(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, "", m); err != nil {
			logger.Warn("gemini provider disabled", "error", err)
		} else {
			guard(g, cfg.GeminiModel)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		if o, err := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, m); err != nil {
			logger.Warn("openai provider disabled", "error", err)
		} else {
			guard(o, cfg.OpenAIModel)
		}
	}
	if cfg.OllamaChat {
		if o, err := llm.NewOllama(cfg.OllamaHost, cfg.OllamaModel, m); err != nil {
			logger.Warn("ollama provider disabled", "error", err)
		} else {
			guard(o, cfg.OllamaModel)
		}
	}
	return out, names
}
