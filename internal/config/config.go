package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port string

	// Events API consumed by fixture search
	PublicAPIBase string
	APITimeout    time.Duration

	// Generative providers
	GoogleAPIKey     string
	GeminiModel      string
	OpenAIAPIKey     string
	OpenAIModel      string
	OllamaHost       string
	OllamaModel      string
	OllamaChat       bool
	LLMTimeout       time.Duration
	CircuitTrip      int
	CircuitCooldown  time.Duration
	SystemPromptFile string

	// Intent embeddings
	EmbedProvider string
	EmbedModel    string
	VoyageAPIKey  string

	// Dialogue
	EntitiesFile    string
	SessionTTL      time.Duration
	IntentThreshold float64

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Unset or invalid values fall back to the defaults below.
func Load() Config {
	return Config{
		Port: getEnv("SPORTRIUM_PORT", "8080"),

		PublicAPIBase: strings.TrimRight(getEnv("PUBLIC_API_BASE", "http://127.0.0.1:5000"), "/"),
		APITimeout:    getSeconds("API_TIMEOUT_SEC", 3.5),

		GoogleAPIKey:     firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:      getEnv("MODEL_NAME", "gpt-4o-mini"),
		OllamaHost:       getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "llama3.2"),
		OllamaChat:       getEnv("OLLAMA_CHAT", "false") == "true",
		LLMTimeout:       getSeconds("LLM_TIMEOUT_SEC", 6),
		CircuitTrip:      getInt("LLM_CIRCUIT_TRIP", 3),
		CircuitCooldown:  getSeconds("LLM_CIRCUIT_COOLDOWN_SEC", 300),
		SystemPromptFile: getEnv("ASSISTANT_SYSTEM_PROMPT_FILE", "data/prompt_playbook_ur.txt"),

		EmbedProvider: strings.ToLower(getEnv("EMBED_PROVIDER", "none")),
		EmbedModel:    getEnv("EMBED_MODEL", ""),
		VoyageAPIKey:  os.Getenv("VOYAGE_API_KEY"),

		EntitiesFile:    getEnv("ENTITIES_FILE", "data/entities.yaml"),
		SessionTTL:      time.Duration(getInt("SESSION_TTL_MIN", 30)) * time.Minute,
		IntentThreshold: getFloat("INTENT_THRESHOLD", 0.55),

		LogFile:  getEnv("SPORTRIUM_LOG_FILE", "/tmp/sportrium.log"),
		LogLevel: ParseLogLevel(getEnv("SPORTRIUM_LOG_LEVEL", "INFO")),
	}
}

// Provider names the generative provider that will be tried first.
func (c Config) Provider() string {
	switch {
	case c.GoogleAPIKey != "":
		return "gemini"
	case c.OpenAIAPIKey != "":
		return "openai"
	case c.OllamaChat:
		return "ollama"
	default:
		return "mock"
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

func getFloat(key string, defaultVal float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

func getSeconds(key string, defaultVal float64) time.Duration {
	return time.Duration(getFloat(key, defaultVal) * float64(time.Second))
}

// ParseLogLevel maps a level name to slog.Level, defaulting to Info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
